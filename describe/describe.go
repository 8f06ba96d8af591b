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

// Package describe renders an intbtree.BTree level by level for humans.
//
// It only uses the read-only Node handles the tree exposes, so it never
// touches the tree's internals.
package describe

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/google/intbtree"
)

// Options controls Write.
type Options struct {
	// Color paints every level in its own colour.
	Color bool
}

var palette = []color.Attribute{
	color.FgCyan,
	color.FgGreen,
	color.FgYellow,
	color.FgMagenta,
	color.FgBlue,
	color.FgRed,
}

// Levels returns the keys of every node grouped by depth: Levels(t)[d][j] is
// the key list of the j-th node, left to right, at depth d.
func Levels(t *intbtree.BTree) [][][]int {
	var out [][][]int
	level := []intbtree.Node{t.Root()}
	for len(level) > 0 {
		var next []intbtree.Node
		row := make([][]int, 0, len(level))
		for _, n := range level {
			row = append(row, n.Keys())
			next = append(next, n.Children()...)
		}
		out = append(out, row)
		level = next
	}
	return out
}

// Lines formats Levels as one line per depth, each node shown as [k1 k2 ...].
func Lines(t *intbtree.BTree) []string {
	levels := Levels(t)
	out := make([]string, len(levels))
	for d, row := range levels {
		out[d] = formatRow(row, nil)
	}
	return out
}

// Write writes Lines to w.
func Write(w io.Writer, t *intbtree.BTree, opts Options) error {
	for d, row := range Levels(t) {
		var paint func(a ...interface{}) string
		if opts.Color {
			c := color.New(palette[d%len(palette)])
			c.EnableColor()
			paint = c.SprintFunc()
		}
		if _, err := fmt.Fprintln(w, formatRow(row, paint)); err != nil {
			return err
		}
	}
	return nil
}

func formatRow(row [][]int, paint func(a ...interface{}) string) string {
	var b strings.Builder
	for j, keys := range row {
		if j > 0 {
			b.WriteByte(' ')
		}
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = strconv.Itoa(k)
		}
		node := "[" + strings.Join(parts, " ") + "]"
		if paint != nil {
			node = paint(node)
		}
		b.WriteString(node)
	}
	return b.String()
}
