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

import "fmt"

// bound is an optional key limit inherited from the ancestors of a node.
type bound struct {
	key   int
	valid bool
}

// Check walks the whole tree and verifies the B-Tree invariants: node sizes,
// key order inside and across nodes, child counts, equal leaf depth and the
// cached length. The first violation found is returned wrapped around
// ErrCorrupt.
func (t *BTree) Check() error {
	c := checker{t: t, leafDepth: -1}
	if t.root == nil {
		return fmt.Errorf("%w: nil root", ErrCorrupt)
	}
	if err := c.check(t.root, 0, bound{}, bound{}); err != nil {
		return err
	}
	if c.count != t.length {
		return fmt.Errorf("%w: length %d but %d keys reachable", ErrCorrupt, t.length, c.count)
	}
	return nil
}

type checker struct {
	t         *BTree
	leafDepth int
	count     int
}

// less reports whether a must sort before b. Equal neighbours are only
// allowed in multiset trees.
func (c *checker) less(a, b int) bool {
	if c.t.duplicates {
		return a <= b
	}
	return a < b
}

func (c *checker) check(n *node, depth int, lo, hi bound) error {
	if depth > 0 && len(n.keys) < c.t.minKeys() {
		return fmt.Errorf("%w: node %v at depth %d has fewer than %d keys", ErrCorrupt, n.keys, depth, c.t.minKeys())
	}
	if len(n.keys) > c.t.maxKeys() {
		return fmt.Errorf("%w: node %v at depth %d has more than %d keys", ErrCorrupt, n.keys, depth, c.t.maxKeys())
	}
	for i := 1; i < len(n.keys); i++ {
		if !c.less(n.keys[i-1], n.keys[i]) {
			return fmt.Errorf("%w: node %v is out of order at index %d", ErrCorrupt, n.keys, i)
		}
	}
	if len(n.keys) > 0 {
		if lo.valid && !c.less(lo.key, n.keys[0]) {
			return fmt.Errorf("%w: node %v has a key below separator %d", ErrCorrupt, n.keys, lo.key)
		}
		if hi.valid && !c.less(n.keys[len(n.keys)-1], hi.key) {
			return fmt.Errorf("%w: node %v has a key above separator %d", ErrCorrupt, n.keys, hi.key)
		}
	}
	c.count += len(n.keys)
	if n.leaf() {
		if c.leafDepth < 0 {
			c.leafDepth = depth
		} else if c.leafDepth != depth {
			return fmt.Errorf("%w: leaf %v at depth %d, want %d", ErrCorrupt, n.keys, depth, c.leafDepth)
		}
		return nil
	}
	if len(n.children) != len(n.keys)+1 {
		return fmt.Errorf("%w: node %v has %d children", ErrCorrupt, n.keys, len(n.children))
	}
	for i, child := range n.children {
		if child == nil {
			return fmt.Errorf("%w: node %v has a nil child at %d", ErrCorrupt, n.keys, i)
		}
		clo, chi := lo, hi
		if i > 0 {
			clo = bound{key: n.keys[i-1], valid: true}
		}
		if i < len(n.keys) {
			chi = bound{key: n.keys[i], valid: true}
		}
		if err := c.check(child, depth+1, clo, chi); err != nil {
			return err
		}
	}
	return nil
}
