// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/polctl/polctl/internal/config"
	"github.com/polctl/polctl/internal/differ"
	"github.com/polctl/polctl/internal/meta"
	"github.com/polctl/polctl/internal/snapshot"
)

// diffCommandAction is the action handler for the "diff" subcommand. It reads
// two snapshot documents, transparently decrypting encrypted bundles, and
// prints the drift between them.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "diff"

	left := cmd.Args().Get(0)
	right := cmd.Args().Get(1)
	if left == "" || right == "" {
		return fmt.Errorf("usage: polctl diff <snapshot> <snapshot>")
	}

	docs := make([][]byte, 2)
	for i, path := range []string{left, right} {
		doc, err := readSnapshot(path, cmd.String("passphrase"))
		if err != nil {
			return err
		}
		docs[i] = doc
	}

	return differ.Diff(docs, cmd.String("ignore"), os.Stdout)
}

// readSnapshot loads a snapshot document from disk, decrypting it when it is
// an encrypted bundle. An empty passphrase falls back to an interactive
// prompt.
func readSnapshot(path string, passphrase string) ([]byte, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	if !snapshot.Encrypted(doc) {
		return doc, nil
	}

	if passphrase == "" {
		if passphrase, err = snapshot.GetPassphrase(); err != nil {
			return nil, err
		}
	}

	return snapshot.Decrypt(doc, passphrase)
}

// diffCommandBuilder constructs the "diff" subcommand.
func diffCommandBuilder(m meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "diff",
		Usage:     "diff two snapshots",
		UsageText: "polctl diff <snapshot> <snapshot> [options]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "ignore",
				Aliases: []string{"i"},
				Usage:   "comma-separated list of top-level keys to ignore",
			},
			passphraseFlag,
		},
		Action: diffCommandAction,
		Meta:   m,
	}).Build()
}
