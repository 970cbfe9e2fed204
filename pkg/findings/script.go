// Copyright 2025 walteh LLC
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

package findings

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var cleanupTemplate = template.Must(template.New("cleanup").Funcs(template.FuncMap{
	"quote": shellQuote,
	"abs":   func(p string) string { return p },
}).Parse(`#!/bin/bash
# Generated by rewriterc duplicates. Review before running.
# Every rm line is commented out; uncomment the ones you agree with.
# Commit your work first.
{{ range . }}
# {{ .Base }} ({{ .Dir }}): {{ .Keep }}
# js {{ .JSSize }} bytes, ts {{ .TSSize }} bytes
{{- if .Remove }}
# rm -v {{ quote (abs .Remove) }}
{{- else }}
# compare manually: {{ quote (abs .JSPath) }} vs {{ quote (abs .TSPath) }}
{{- end }}
{{ end -}}
`))

// 📝 WriteCleanupScript writes an advisory bash script for pairs to
// scriptPath, with every rm line commented out. The script is executable
// but never run. Paths in the script are absolute, resolved by mgr.
func WriteCleanupScript(ctx context.Context, mgr *status.Manager, scriptPath string, pairs []Pair) error {
	tmpl, err := cleanupTemplate.Clone()
	if err != nil {
		return errors.Errorf("cloning cleanup template: %w", err)
	}
	tmpl.Funcs(template.FuncMap{"abs": mgr.Abs})

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, pairs); err != nil {
		return errors.Errorf("rendering cleanup script: %w", err)
	}

	if err := mgr.WriteFileAtomic(ctx, scriptPath, buf.Bytes(), 0755); err != nil {
		return errors.Errorf("writing cleanup script: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", mgr.Abs(scriptPath)).
		Int("pairs", len(pairs)).
		Msg("wrote cleanup script")

	return nil
}

// shellQuote wraps s in single quotes for bash
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
