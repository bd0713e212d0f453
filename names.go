// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

import "strings"

// NameHandle identifies an interned name.
//
type NameHandle int

// names interns instance names. Names are qualified by the namespace stack:
// with namespaces "cpu" and "alu" pushed, "add" is interned as "cpu.alu.add".
type names struct {
	m     map[string]NameHandle
	names []string
	ns    []string
}

func newNames() *names {
	return &names{m: make(map[string]NameHandle)}
}

func (n *names) qualify(name string) string {
	if len(n.ns) == 0 {
		return name
	}
	return strings.Join(n.ns, ".") + "." + name
}

// intern interns the fully qualified name.
func (n *names) intern(name string) NameHandle {
	h, ok := n.m[name]
	if !ok {
		h = NameHandle(len(n.names))
		n.names = append(n.names, name)
		n.m[name] = h
	}
	return h
}

// forget removes the last interned name.
func (n *names) forget(h NameHandle) {
	if int(h) != len(n.names)-1 {
		panic("can only forget the last interned name")
	}
	delete(n.m, n.names[h])
	n.names = n.names[:h]
}

func (n *names) find(name string) (NameHandle, bool) {
	h, ok := n.m[name]
	return h, ok
}

func (n *names) String(h NameHandle) string {
	return n.names[h]
}

func (n *names) push(ns string) { n.ns = append(n.ns, ns) }

func (n *names) pop() {
	if len(n.ns) == 0 {
		panic("namespace stack underflow")
	}
	n.ns = n.ns[:len(n.ns)-1]
}
