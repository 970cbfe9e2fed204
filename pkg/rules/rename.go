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

package rules

import (
	"regexp"
	"strings"

	"github.com/walteh/rewriterc/pkg/text"
)

// Rename maps one identifier to another
type Rename struct {
	From string
	To   string
}

// DefaultRenames is the field and handler rename table of the RBAC API move
// to snake_case
var DefaultRenames = []Rename{
	// users
	{"userName", "user_name"},
	{"userNickname", "nick_name"},
	{"phoneNumber", "phone"},
	{"departmentId", "dept_id"},
	{"userCode", "user_code"},

	// roles
	{"roleName", "role_name"},
	{"roleCode", "role_code"},
	{"sortOrder", "sort_order"},

	// departments
	{"deptName", "dept_name"},
	{"deptCode", "dept_code"},
	{"parentId", "parent_id"},

	// positions
	{"positionName", "position_name"},
	{"positionCode", "position_code"},
	{"categoryCode", "category_code"},
	{"orderNum", "order_num"},

	// tenants
	{"tenantName", "tenant_name"},
	{"tenantCode", "tenant_code"},
	{"companyName", "company_name"},
	{"contactPerson", "contact_person"},
	{"contactPhone", "contact_phone"},

	// permissions
	{"permissionName", "permission_name"},
	{"permissionCode", "permission_code"},
	{"permissionType", "permission_type"},

	// audit columns
	{"createTime", "create_time"},
	{"updateTime", "update_time"},
	{"createBy", "create_by"},
	{"updateBy", "update_by"},

	// handlers
	{"handleMoreAction", "handle_more_action"},
	{"downloadTemplate", "download_template"},
	{"importData", "import_data"},
	{"exportData", "export_data"},
	{"resetPassword", "reset_password"},
	{"confirmResetPassword", "confirm_reset_password"},
	{"assignRole", "assign_role"},
	{"handleStatusChange", "handle_status_change"},
}

var (
	camelWord  = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	camelUpper = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// 🐍 CamelToSnake converts userName to user_name and HTTPServer to
// http_server
func CamelToSnake(name string) string {
	s := camelWord.ReplaceAllString(name, "${1}_${2}")
	return strings.ToLower(camelUpper.ReplaceAllString(s, "${1}_${2}"))
}

// RenameRule builds a whole-word rename rule for code files
func RenameRule(from, to string) *text.Rule {
	return text.NewRule("rename/"+from,
		text.Word(from),
		text.Constant(to),
		text.WithFileGlob(codeFiles),
		text.WithDescription("`"+from+"` to `"+to+"`"),
	)
}

// RenameRules builds one rule per rename, in order
func RenameRules(renames []Rename) []*text.Rule {
	out := make([]*text.Rule, 0, len(renames))
	for _, r := range renames {
		out = append(out, RenameRule(r.From, r.To))
	}
	return out
}
