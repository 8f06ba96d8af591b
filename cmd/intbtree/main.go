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

// Command intbtree is an interactive shell for exploring B-Tree splits,
// borrows and merges.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/google/intbtree"
	"github.com/google/intbtree/internal/cli"
)

var (
	degree         = flag.Int("degree", 5, "Minimum degree of the B-Tree (at least 2).")
	shouldSeed     = flag.Bool("seed", false, "Seed the tree with random keys created with go-faker.")
	seedNumRecords = flag.Int("records", 100, "Amount of keys to seed the tree with upon startup.")
	seedMaxKey     = flag.Int("max", 1000, "Largest key the seed may generate.")
	duplicates     = flag.Bool("dups", false, "Keep duplicate keys instead of rejecting them.")
	useColor       = flag.Bool("color", true, "Colour each level of the printed tree.")
	verbose        = flag.Bool("v", false, "Trace every split, borrow and merge.")
)

func main() {
	setupFlags()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.TraceLevel)
	}

	opts := []intbtree.Option{intbtree.WithLogger(log)}
	if *duplicates {
		opts = append(opts, intbtree.WithDuplicates())
	}
	tree, err := intbtree.New(*degree, opts...)
	if err != nil {
		log.WithError(err).Fatal("creating tree")
	}

	if *shouldSeed {
		added, err := cli.Seed(tree, *seedNumRecords, *seedMaxKey)
		if err != nil {
			log.WithError(err).Fatal("seeding tree")
		}
		log.WithField("keys", added).Info("seeded tree")
	}

	scanner := bufio.NewScanner(os.Stdin)
	demo := cli.NewCli(scanner, os.Stdout, tree, log, *useColor)
	demo.Start()
}

func setupFlags() {
	flag.Usage = func() {
		fmt.Println("\nB-Tree CLI\n\nArguments:")
		flag.PrintDefaults()
	}
	flag.Parse()
}
