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

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// keys stores the ordered keys of a node.
type keys []int

// insertAt inserts a value into the given index, pushing all subsequent values
// forward.
func (s *keys) insertAt(index int, key int) {
	*s = append(*s, 0)
	if index < len(*s) {
		copy((*s)[index+1:], (*s)[index:])
	}
	(*s)[index] = key
}

// removeAt removes a value at a given index, pulling all subsequent values
// back.
func (s *keys) removeAt(index int) int {
	key := (*s)[index]
	copy((*s)[index:], (*s)[index+1:])
	*s = (*s)[:len(*s)-1]
	return key
}

// pop removes and returns the last element in the list.
func (s *keys) pop() int {
	index := len(*s) - 1
	out := (*s)[index]
	*s = (*s)[:index]
	return out
}

// truncate truncates this instance at index so that it contains only the
// first index keys. index must be less than or equal to length.
func (s *keys) truncate(index int) {
	*s = (*s)[:index]
}

// find returns the number of keys strictly less than key, which is both the
// slot key would be inserted at and the child to descend into. found reports
// whether the key at that index equals key.
func (s keys) find(key int) (index int, found bool) {
	i := sort.Search(len(s), func(i int) bool {
		return key <= s[i]
	})
	return i, i < len(s) && s[i] == key
}

// upperBound returns the number of keys less than or equal to key. Equal keys
// are routed to the right of existing copies in multiset mode.
func (s keys) upperBound(key int) int {
	return sort.Search(len(s), func(i int) bool {
		return key < s[i]
	})
}

// children stores child nodes in a node.
type children []*node

// insertAt inserts a value into the given index, pushing all subsequent values
// forward.
func (s *children) insertAt(index int, n *node) {
	*s = append(*s, nil)
	if index < len(*s) {
		copy((*s)[index+1:], (*s)[index:])
	}
	(*s)[index] = n
}

// removeAt removes a value at a given index, pulling all subsequent values
// back.
func (s *children) removeAt(index int) *node {
	n := (*s)[index]
	copy((*s)[index:], (*s)[index+1:])
	(*s)[len(*s)-1] = nil
	*s = (*s)[:len(*s)-1]
	return n
}

// pop removes and returns the last element in the list.
func (s *children) pop() (out *node) {
	index := len(*s) - 1
	out = (*s)[index]
	(*s)[index] = nil
	*s = (*s)[:index]
	return
}

// truncate truncates this instance at index so that it contains only the
// first index children. index must be less than or equal to length.
func (s *children) truncate(index int) {
	var toClear children
	*s, toClear = (*s)[:index], (*s)[index:]
	for i := 0; i < len(toClear); i++ {
		toClear[i] = nil
	}
}

// node is an internal node in a tree.
//
// It must at all times maintain the invariant that either
//   - len(children) == 0, len(keys) unconstrained
//   - len(children) == len(keys) + 1
type node struct {
	keys     keys
	children children
}

func (n *node) leaf() bool {
	return len(n.children) == 0
}

// split splits the given node at the given index.  The current node shrinks,
// and this function returns the key that existed at that index and a new node
// containing all keys/children after it.
func (n *node) split(i int, t *BTree) (int, *node) {
	key := n.keys[i]
	next := t.newNode()
	next.keys = append(next.keys, n.keys[i+1:]...)
	n.keys.truncate(i)
	if len(n.children) > 0 {
		next.children = append(next.children, n.children[i+1:]...)
		n.children.truncate(i + 1)
	}
	return key, next
}

// maybeSplitChild checks if a child should be split, and if so splits it.
// Returns whether or not a split occurred.
func (n *node) maybeSplitChild(i int, t *BTree) bool {
	maxKeys := t.maxKeys()
	if len(n.children[i].keys) < maxKeys {
		return false
	}
	first := n.children[i]
	key, second := first.split(maxKeys/2, t)
	n.keys.insertAt(i, key)
	n.children.insertAt(i+1, second)
	t.trace("split", i, n)
	return true
}

// insert inserts key into the subtree rooted at n, splitting every full node
// on the way down before entering it. It returns false when key is already
// present and the tree rejects duplicates.
func (n *node) insert(key int, t *BTree) bool {
	for {
		var i int
		if t.duplicates {
			i = n.keys.upperBound(key)
		} else {
			var found bool
			if i, found = n.keys.find(key); found {
				return false
			}
		}
		if n.leaf() {
			n.keys.insertAt(i, key)
			return true
		}
		if n.maybeSplitChild(i, t) {
			switch inTree := n.keys[i]; {
			case key < inTree:
				// no change, we want first split node
			case inTree < key:
				i++ // we want second split node
			case !t.duplicates:
				return false
			}
		}
		n = n.children[i]
	}
}

// get finds the given key in the subtree.
func (n *node) get(key int) bool {
	for {
		i, found := n.keys.find(key)
		if found {
			return true
		}
		if n.leaf() {
			return false
		}
		n = n.children[i]
	}
}

// min returns the first key in the subtree.
func min(n *node) (_ int, found bool) {
	if n == nil {
		return
	}
	for len(n.children) > 0 {
		n = n.children[0]
	}
	if len(n.keys) == 0 {
		return
	}
	return n.keys[0], true
}

// max returns the last key in the subtree.
func max(n *node) (_ int, found bool) {
	if n == nil {
		return
	}
	for len(n.children) > 0 {
		n = n.children[len(n.children)-1]
	}
	if len(n.keys) == 0 {
		return
	}
	return n.keys[len(n.keys)-1], true
}

// toRemove details what key to remove in a node.remove call.
type toRemove int

const (
	removeKey toRemove = iota // removes the given key
	removeMin                 // removes smallest key in the subtree
	removeMax                 // removes largest key in the subtree
)

// remove removes a key from the subtree rooted at this node.
//
// The caller guarantees n holds more than minKeys keys, or that n is the
// root. Before stepping into a child the child is grown to more than minKeys
// keys, so removing a key from a leaf never leaves it below the minimum.
func (n *node) remove(key int, typ toRemove, t *BTree) (_ int, _ bool) {
	minKeys := t.minKeys()
	for {
		var i int
		var found bool
		switch typ {
		case removeMax:
			if n.leaf() {
				return n.keys.pop(), true
			}
			i = len(n.keys)
		case removeMin:
			if n.leaf() {
				return n.keys.removeAt(0), true
			}
			i = 0
		case removeKey:
			i, found = n.keys.find(key)
			if n.leaf() {
				if found {
					return n.keys.removeAt(i), true
				}
				return
			}
		default:
			panic("invalid type")
		}
		// If we get to here, we have children.
		if found {
			out := n.keys[i]
			switch {
			case len(n.children[i].keys) > minKeys:
				// Pull the predecessor out of the left subtree.
				n.keys[i], _ = n.children[i].remove(0, removeMax, t)
				return out, true
			case len(n.children[i+1].keys) > minKeys:
				// Pull the successor out of the right subtree.
				n.keys[i], _ = n.children[i+1].remove(0, removeMin, t)
				return out, true
			}
			// Both neighbours are at the minimum: fold the key into the merged
			// child and keep deleting there.
			n.merge(i, t)
			n = n.children[i]
			continue
		}
		if len(n.children[i].keys) <= minKeys {
			i = n.growChild(i, t)
		}
		n = n.children[i]
	}
}

// growChild makes sure child i holds more than minKeys keys so that a key can
// be removed from its subtree. It returns the index the grown child now lives
// at, which moves left by one when it was merged into its left sibling.
//
// The candidates are tried in order:
//
//	a) left sibling has a key to spare
//	b) right sibling has a key to spare
//	c) merge with the left sibling, or the right one when there is none
func (n *node) growChild(i int, t *BTree) int {
	minKeys := t.minKeys()
	switch {
	case i > 0 && len(n.children[i-1].keys) > minKeys:
		n.borrowFromLeft(i, t)
	case i < len(n.keys) && len(n.children[i+1].keys) > minKeys:
		n.borrowFromRight(i, t)
	case i > 0:
		i--
		n.merge(i, t)
	default:
		n.merge(i, t)
	}
	return i
}

// borrowFromLeft rotates the separator keys[i-1] down into child i and the
// left sibling's last key up into its place.
func (n *node) borrowFromLeft(i int, t *BTree) {
	child := n.children[i]
	stealFrom := n.children[i-1]
	if len(stealFrom.keys) <= t.minKeys() {
		panic("borrow from a left sibling at minimum")
	}
	stolenKey := stealFrom.keys.pop()
	child.keys.insertAt(0, n.keys[i-1])
	n.keys[i-1] = stolenKey
	if len(stealFrom.children) > 0 {
		child.children.insertAt(0, stealFrom.children.pop())
	}
	t.trace("borrow-left", i, n)
}

// borrowFromRight rotates the separator keys[i] down onto the end of child i
// and the right sibling's first key up into its place.
func (n *node) borrowFromRight(i int, t *BTree) {
	child := n.children[i]
	stealFrom := n.children[i+1]
	if len(stealFrom.keys) <= t.minKeys() {
		panic("borrow from a right sibling at minimum")
	}
	stolenKey := stealFrom.keys.removeAt(0)
	child.keys = append(child.keys, n.keys[i])
	n.keys[i] = stolenKey
	if len(stealFrom.children) > 0 {
		child.children = append(child.children, stealFrom.children.removeAt(0))
	}
	t.trace("borrow-right", i, n)
}

// merge concatenates child i, the separator keys[i] and child i+1 into child
// i, drops the separator and the absorbed child from n and recycles the
// absorbed node.
func (n *node) merge(i int, t *BTree) {
	child := n.children[i]
	mergeKey := n.keys.removeAt(i)
	mergeChild := n.children.removeAt(i + 1)
	if len(child.keys)+1+len(mergeChild.keys) > t.maxKeys() {
		panic("merge would overflow a node")
	}
	child.keys = append(child.keys, mergeKey)
	child.keys = append(child.keys, mergeChild.keys...)
	child.children = append(child.children, mergeChild.children...)
	t.freeNode(mergeChild)
	t.trace("merge", i, n)
}

// ascend calls iter for every key of the subtree in order. It returns false
// once iter has asked to stop.
func (n *node) ascend(iter KeyIterator) bool {
	for i, key := range n.keys {
		if len(n.children) > 0 && !n.children[i].ascend(iter) {
			return false
		}
		if !iter(key) {
			return false
		}
	}
	if len(n.children) > 0 {
		return n.children[len(n.children)-1].ascend(iter)
	}
	return true
}

// reset returns every node of the subtree to the free list, stopping as soon
// as the list is full. It reports whether the walk should continue.
func (n *node) reset(f *FreeList) bool {
	for _, child := range n.children {
		if !child.reset(f) {
			return false
		}
	}
	return f.freeNode(n)
}

// print is used for testing/debugging purposes.
func (n *node) print(w io.Writer, level int) {
	fmt.Fprintf(w, "%sNODE:%v\n", strings.Repeat("  ", level), n.keys)
	for _, c := range n.children {
		c.print(w, level+1)
	}
}
