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

// Package cli is a line-oriented shell over an intbtree.BTree.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/go-faker/faker/v4"
	"github.com/sirupsen/logrus"

	"github.com/google/intbtree"
	"github.com/google/intbtree/describe"
)

// Cli reads commands from a scanner and applies them to a tree.
type Cli struct {
	scanner *bufio.Scanner
	out     io.Writer
	tree    *intbtree.BTree
	log     *logrus.Logger
	color   bool
}

// NewCli returns a shell reading from s and writing to out.
func NewCli(s *bufio.Scanner, out io.Writer, t *intbtree.BTree, log *logrus.Logger, useColor bool) *Cli {
	return &Cli{scanner: s, out: out, tree: t, log: log, color: useColor}
}

// Start runs the read loop until the input ends or EXIT is read.
func (c *Cli) Start() {
	c.printHelp()
	c.printPrompt()
	for c.scanner.Scan() {
		if !c.processInput(c.scanner.Text()) {
			return
		}
		c.printPrompt()
	}
	if err := c.scanner.Err(); err != nil {
		c.log.WithError(err).Error("reading input")
	}
}

func (c *Cli) printHelp() {
	fmt.Fprintf(c.out, `
B-Tree CLI (degree %d)

Available Commands:
  INSERT <key>...  Insert integer keys into the B-Tree
  DELETE <key>...  Remove integer keys from the B-Tree
  SEARCH <key>     Show the path the search for key takes
  PRINT            Show the tree level by level
  CHECK            Verify the B-Tree invariants
  CLEAR            Remove every key
  HELP             Show this message
  EXIT             Terminate this session
`, c.tree.Degree())
}

func (c *Cli) printPrompt() {
	prompt := "> "
	if c.color {
		prompt = color.New(color.Bold).Sprint(prompt)
	}
	fmt.Fprint(c.out, prompt)
}

// processInput runs one command line and reports whether the loop should go on.
func (c *Cli) processInput(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return true
	}
	command := strings.ToLower(fields[0])
	switch command {
	default:
		fmt.Fprintf(c.out, "Unknown command %q\n", command)
	case "insert":
		c.processInsertCommand(fields[1:])
	case "delete":
		c.processDeleteCommand(fields[1:])
	case "search":
		c.processSearchCommand(fields[1:])
	case "print":
		c.printTree()
	case "check":
		if err := c.tree.Check(); err != nil {
			c.log.WithError(err).Error("invariant check failed")
			fmt.Fprintln(c.out, err)
			return true
		}
		fmt.Fprintf(c.out, "OK: %d keys, height %d\n", c.tree.Len(), c.tree.Height())
	case "clear":
		c.tree.Clear(true)
		fmt.Fprintln(c.out, "Tree cleared.")
	case "help":
		c.printHelp()
	case "exit":
		return false
	}
	return true
}

func (c *Cli) parseKeys(args []string) ([]int, bool) {
	keys := make([]int, 0, len(args))
	for _, a := range args {
		k, err := strconv.Atoi(a)
		if err != nil {
			c.log.WithField("arg", a).WithError(err).Warn("not an integer")
			fmt.Fprintf(c.out, "Value %q is not valid\n", a)
			return nil, false
		}
		keys = append(keys, k)
	}
	return keys, true
}

func (c *Cli) processInsertCommand(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Usage: INSERT <key>...")
		return
	}
	keys, ok := c.parseKeys(args)
	if !ok {
		return
	}
	for _, k := range keys {
		if !c.tree.Insert(k) {
			fmt.Fprintf(c.out, "Key %d already present.\n", k)
		}
	}
	c.printTree()
}

func (c *Cli) processDeleteCommand(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Usage: DELETE <key>...")
		return
	}
	keys, ok := c.parseKeys(args)
	if !ok {
		return
	}
	for _, k := range keys {
		if !c.tree.Delete(k) {
			fmt.Fprintf(c.out, "Key %d not found.\n", k)
		}
	}
	c.printTree()
}

func (c *Cli) processSearchCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: SEARCH <key>")
		return
	}
	keys, ok := c.parseKeys(args)
	if !ok {
		return
	}
	path, found := c.tree.Path(keys[0])
	steps := make([]string, len(path))
	for i, k := range path {
		steps[i] = strconv.Itoa(k)
	}
	if !found {
		steps = append(steps, "not found")
	}
	fmt.Fprintln(c.out, strings.Join(steps, " => "))
}

func (c *Cli) printTree() {
	if err := describe.Write(c.out, c.tree, describe.Options{Color: c.color}); err != nil {
		c.log.WithError(err).Error("writing tree")
	}
}

// Seed inserts up to n distinct random keys drawn from [0, max] and returns
// how many were added.
func Seed(t *intbtree.BTree, n, max int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	if max < n-1 {
		max = n - 1
	}
	keys, err := faker.RandomInt(0, max, n)
	if err != nil {
		return 0, fmt.Errorf("generating seed keys: %w", err)
	}
	added := 0
	for _, k := range keys {
		if t.Insert(k) {
			added++
		}
	}
	return added, nil
}
