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

// Package intbtree implements an in-memory B-Tree of integer keys with a
// configurable minimum degree.
//
// Each node holds a sorted slice of keys and, unless it is a leaf, one more
// child than it has keys. Every node except the root holds between degree-1
// and 2*degree-1 keys, and every leaf sits at the same depth, so the height
// of a tree holding n keys is O(log_degree n).
//
// Insertion runs top-down and splits every full node before entering it, so
// the node that finally receives a key always has room for it. Deletion also
// runs top-down: before stepping into a child that is at its minimum size the
// child is topped up by borrowing a key from a sibling or by merging with
// one. Neither operation ever has to walk back up the tree.
//
// The tree is not meant for persistent storage, and write operations are not
// safe for concurrent use.
package intbtree

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidDegree is returned by New when the degree is less than 2.
	ErrInvalidDegree = errors.New("intbtree: degree must be at least 2")
	// ErrCorrupt is wrapped by every invariant violation Check reports.
	ErrCorrupt = errors.New("intbtree: corrupt tree")
)

// defaultLogger stays at Info level and writes nowhere, so tracing is only
// ever switched on through WithLogger.
var defaultLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// KeyIterator allows callers of Ascend to iterate in-order over the tree.
// When this function returns false, iteration will stop and Ascend will
// immediately return.
type KeyIterator func(key int) bool

// Option configures a BTree created by New.
type Option func(*BTree)

// WithFreeList makes the tree allocate and recycle nodes through f, which may
// be shared with other trees.
func WithFreeList(f *FreeList) Option {
	return func(t *BTree) {
		t.freelist = f
	}
}

// WithDuplicates makes the tree a multiset: inserting a key that is already
// present stores another copy to the right of the existing ones, and Delete
// removes one copy at a time.
func WithDuplicates() Option {
	return func(t *BTree) {
		t.duplicates = true
	}
}

// WithLogger sets the logger that receives structural events (splits,
// borrows, merges and root changes) at trace level. A nil logger is ignored.
func WithLogger(l *logrus.Logger) Option {
	return func(t *BTree) {
		if l != nil {
			t.log = l
		}
	}
}

// BTree is an in-memory B-Tree of int keys.
//
// The zero value is not usable; create trees with New.
type BTree struct {
	degree     int
	length     int
	root       *node
	freelist   *FreeList
	duplicates bool
	log        *logrus.Logger
}

// New creates a new B-Tree with the given degree.
//
// New(2), for example, will create a 2-3-4 tree (each node contains 1-3 keys
// and 2-4 children).
func New(degree int, opts ...Option) (*BTree, error) {
	if degree < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDegree, degree)
	}
	t := &BTree{
		degree: degree,
		log:    defaultLogger,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.freelist == nil {
		t.freelist = NewFreeList(DefaultFreeListSize)
	}
	t.root = t.newNode()
	return t, nil
}

// maxKeys returns the max number of keys to allow per node.
func (t *BTree) maxKeys() int {
	return t.degree*2 - 1
}

// minKeys returns the min number of keys to allow per node (ignored for the
// root node).
func (t *BTree) minKeys() int {
	return t.degree - 1
}

func (t *BTree) newNode() *node {
	return t.freelist.newNode()
}

func (t *BTree) freeNode(n *node) {
	t.freelist.freeNode(n)
}

func (t *BTree) trace(op string, index int, n *node) {
	if !t.log.IsLevelEnabled(logrus.TraceLevel) {
		return
	}
	t.log.WithFields(logrus.Fields{
		"op":     op,
		"index":  index,
		"keys":   []int(n.keys),
		"degree": t.degree,
	}).Trace("btree restructure")
}

// Degree returns the minimum degree the tree was created with.
func (t *BTree) Degree() int {
	return t.degree
}

// AllowsDuplicates reports whether the tree was created WithDuplicates.
func (t *BTree) AllowsDuplicates() bool {
	return t.duplicates
}

// Insert adds key to the tree and reports whether it was added. Unless the
// tree was created WithDuplicates, inserting a key that is already present
// leaves the key set unchanged and returns false. Full nodes on the way down
// are split before the duplicate is seen, so a rejected insert can still
// reshape the tree and even grow its Height; the result is a valid B-Tree.
func (t *BTree) Insert(key int) bool {
	if len(t.root.keys) >= t.maxKeys() {
		oldroot := t.root
		t.root = t.newNode()
		t.root.children = append(t.root.children, oldroot)
		t.root.maybeSplitChild(0, t)
		t.trace("grow-root", 0, t.root)
	}
	if !t.root.insert(key, t) {
		return false
	}
	t.length++
	return true
}

// Delete removes key from the tree and reports whether it was present. In a
// tree created WithDuplicates a single copy is removed.
func (t *BTree) Delete(key int) bool {
	_, ok := t.deleteKey(key, removeKey)
	return ok
}

// DeleteMin removes the smallest key in the tree and returns it.
// If the tree is empty, returns (0, false).
func (t *BTree) DeleteMin() (int, bool) {
	return t.deleteKey(0, removeMin)
}

// DeleteMax removes the largest key in the tree and returns it.
// If the tree is empty, returns (0, false).
func (t *BTree) DeleteMax() (int, bool) {
	return t.deleteKey(0, removeMax)
}

func (t *BTree) deleteKey(key int, typ toRemove) (_ int, _ bool) {
	if len(t.root.keys) == 0 {
		return
	}
	out, outb := t.root.remove(key, typ, t)
	if len(t.root.keys) == 0 && len(t.root.children) > 0 {
		oldroot := t.root
		t.root = t.root.children[0]
		t.freeNode(oldroot)
		t.trace("shrink-root", 0, t.root)
	}
	if outb {
		t.length--
	}
	return out, outb
}

// Search looks for key in the tree, returning it and true, or (0, false) if
// it is not present.
func (t *BTree) Search(key int) (int, bool) {
	if t.root.get(key) {
		return key, true
	}
	return 0, false
}

// Has returns true if the given key is in the tree.
func (t *BTree) Has(key int) bool {
	return t.root.get(key)
}

// Path returns the keys the search for key turns at on its way down: for each
// node visited, the largest key smaller than key (or the node's first key
// when there is none), followed by key itself when it is found.
func (t *BTree) Path(key int) (path []int, found bool) {
	n := t.root
	for len(n.keys) > 0 {
		i, ok := n.keys.find(key)
		if ok {
			return append(path, key), true
		}
		if i > 0 {
			path = append(path, n.keys[i-1])
		} else {
			path = append(path, n.keys[0])
		}
		if n.leaf() {
			break
		}
		n = n.children[i]
	}
	return path, false
}

// Min returns the smallest key in the tree, or (0, false) if the tree is empty.
func (t *BTree) Min() (int, bool) {
	return min(t.root)
}

// Max returns the largest key in the tree, or (0, false) if the tree is empty.
func (t *BTree) Max() (int, bool) {
	return max(t.root)
}

// Len returns the number of keys currently in the tree.
func (t *BTree) Len() int {
	return t.length
}

// Height returns the number of levels in the tree. An empty tree has height 1:
// its root is an empty leaf.
func (t *BTree) Height() int {
	h := 1
	for n := t.root; !n.leaf(); n = n.children[0] {
		h++
	}
	return h
}

// Ascend calls the iterator for every key in the tree in ascending order,
// until iterator returns false.
func (t *BTree) Ascend(iterator KeyIterator) {
	t.root.ascend(iterator)
}

// Keys returns every key in the tree in ascending order.
func (t *BTree) Keys() []int {
	out := make([]int, 0, t.length)
	t.Ascend(func(key int) bool {
		out = append(out, key)
		return true
	})
	return out
}

// Clear removes all keys from the btree.  If addNodesToFreelist is true,
// t's nodes are added to its freelist as part of this call, until the freelist
// is full.  Otherwise, the root node is simply dereferenced and the subtree
// left to Go's normal GC processes.
func (t *BTree) Clear(addNodesToFreelist bool) {
	if addNodesToFreelist {
		t.root.reset(t.freelist)
	}
	t.root, t.length = t.newNode(), 0
}

// Print writes an indented dump of every node, for testing and debugging.
func (t *BTree) Print(w io.Writer) {
	t.root.print(w, 0)
}
