// Copyright 2014-2022 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package intbtree

// Node is a read-only handle on one node of a tree, for inspection and
// debugging. A Node is only valid until the next write to its tree.
type Node struct {
	n *node
}

// Root returns a handle on the root node of t.
func (t *BTree) Root() Node {
	return Node{n: t.root}
}

// Keys returns a copy of the keys held by the node, in ascending order.
func (v Node) Keys() []int {
	return append([]int(nil), v.n.keys...)
}

// Children returns handles on the node's children, left to right. A leaf has
// none.
func (v Node) Children() []Node {
	if v.n.leaf() {
		return nil
	}
	out := make([]Node, len(v.n.children))
	for i, c := range v.n.children {
		out[i] = Node{n: c}
	}
	return out
}

// IsLeaf reports whether the node has no children.
func (v Node) IsLeaf() bool {
	return v.n.leaf()
}
