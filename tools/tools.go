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

//go:build tools

// Package tools pins the versions of the developer tools run against this
// repository:
//
//	go run github.com/golangci/golangci-lint/cmd/golangci-lint run ./...
//	go run gotest.tools/gotestsum --format testname -- ./...
//	go run github.com/google/addlicense -c "walteh LLC" -l apache -y 2025 ./cmd ./pkg ./tools
package tools

import (
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
	_ "github.com/google/addlicense"
	_ "gotest.tools/gotestsum"
)
