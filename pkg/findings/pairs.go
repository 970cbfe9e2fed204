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
	"context"
	"os"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/fileset"
	"gitlab.com/tozd/go/errors"
)

// 💡 Recommendation says which file of a duplicate pair to keep
type Recommendation int

const (
	RecommendManual Recommendation = iota
	RecommendKeepTS
	RecommendKeepJS
)

func (r Recommendation) String() string {
	switch r {
	case RecommendKeepTS:
		return "keep .ts, remove .js"
	case RecommendKeepJS:
		return "keep .js, remove .ts"
	default:
		return "check both files manually"
	}
}

// 📐 Recommend decides which of a .js/.ts pair to keep from their sizes. An
// empty file loses to a non-empty one; otherwise a file more than 1.5 times
// the size of the other wins; anything closer needs a human.
func Recommend(jsSize, tsSize int64) Recommendation {
	switch {
	case jsSize == 0 && tsSize > 0:
		return RecommendKeepTS
	case tsSize == 0 && jsSize > 0:
		return RecommendKeepJS
	case tsSize*2 > jsSize*3:
		return RecommendKeepTS
	case jsSize*2 > tsSize*3:
		return RecommendKeepJS
	default:
		return RecommendManual
	}
}

// 👯 Pair is a name.js and name.ts living in the same directory
type Pair struct {
	Dir    string
	Base   string
	JSPath string
	TSPath string
	JSSize int64
	TSSize int64
	Keep   Recommendation
}

// Remove returns the path the recommendation would delete, "" when manual
func (p Pair) Remove() string {
	switch p.Keep {
	case RecommendKeepTS:
		return p.JSPath
	case RecommendKeepJS:
		return p.TSPath
	default:
		return ""
	}
}

// Finding converts the pair into a finding on its .js file
func (p Pair) Finding() Finding {
	return Finding{
		Kind:   KindDuplicatePair,
		Path:   p.JSPath,
		Module: p.TSPath,
		Detail: p.Keep.String(),
	}
}

// 👯 DuplicatePairs finds every same-directory name.js + name.ts pair in set,
// in set order, with a keep recommendation based on file sizes
func DuplicatePairs(ctx context.Context, set *fileset.FileSet) ([]Pair, error) {
	present := make(map[string]bool, set.Len())
	for _, rel := range set.Paths {
		present[rel] = true
	}

	var pairs []Pair
	for _, rel := range set.Paths {
		if path.Ext(rel) != ".js" {
			continue
		}
		base := strings.TrimSuffix(rel, ".js")
		tsRel := base + ".ts"
		if !present[tsRel] {
			continue
		}

		jsSize, err := fileSize(set.Abs(rel))
		if err != nil {
			return nil, err
		}
		tsSize, err := fileSize(set.Abs(tsRel))
		if err != nil {
			return nil, err
		}

		p := Pair{
			Dir:    path.Dir(rel),
			Base:   path.Base(base),
			JSPath: rel,
			TSPath: tsRel,
			JSSize: jsSize,
			TSSize: tsSize,
			Keep:   Recommend(jsSize, tsSize),
		}
		zerolog.Ctx(ctx).Debug().
			Str("js", p.JSPath).
			Str("ts", p.TSPath).
			Int64("js_size", jsSize).
			Int64("ts_size", tsSize).
			Str("recommendation", p.Keep.String()).
			Msg("found duplicate pair")
		pairs = append(pairs, p)
	}

	return pairs, nil
}

func fileSize(p string) (int64, error) {
	info, err := os.Stat(p)
	if err != nil {
		return 0, errors.Errorf("stat %s: %w", p, err)
	}
	return info.Size(), nil
}
