// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Diff compares two snapshot documents and writes a colored ascii diff of
// the drift. Keys named in the comma-separated ignore spec are dropped from
// the left document before formatting.
func Diff(docs [][]byte, ignore string, w io.Writer) error {
	log.Debugf(">> differ()")

	if w == nil {
		w = os.Stdout
	}

	if len(docs[0]) == 0 || len(docs[1]) == 0 {
		return nil
	}

	log.Debugf("len(docs): %d %d", len(docs[0]), len(docs[1]))

	differ := gojsondiff.New()

	delta, err := differ.Compare(docs[0], docs[1])
	if err != nil {
		return fmt.Errorf("failed to compare snapshots: %w", err)
	}

	if !delta.Modified() {
		fmt.Fprintln(w, "The snapshots are identical.")
		return nil
	}

	var jdoc map[string]interface{}
	if err := json.Unmarshal(docs[0], &jdoc); err != nil {
		return fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	for key := range strings.SplitSeq(ignore, ",") {
		if key != "" {
			delete(jdoc, key)
		}
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       true,
	}

	asciiFormatter := formatter.NewAsciiFormatter(jdoc, config)
	diffString, err := asciiFormatter.Format(delta)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, diffString)
	return nil
}
