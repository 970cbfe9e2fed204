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

/*
Package status manages file storage and per-file status for rewriterc.

	            +-------------+
	            |   Status    |
	            |  (Storage)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	| Documents |           |  Logs   |
	| (Storage) |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
- Reads whole files and decodes them (UTF-8, UTF-8 with BOM, UTF-16)
- Refuses binary and undecodable files with ErrBinary and ErrDecode
- Writes files back atomically in their original encoding and mode
- Formats per-file outcomes and progress for the logger

🔄 Flow:
1. Read returns a Document with text, encoding, mode and checksum
2. The operation package rewrites Document.Text
3. Write re-encodes and replaces the file only when asked to
4. Track reports the outcome

⚡ Guarantees:
- A failed write leaves the original file untouched and no temp file behind
- A file that is never written keeps its modification time and checksum

🔍 Example:

	mgr := status.New(root)

	doc, err := mgr.Read(ctx, "src/App.vue")
	if err != nil {
		return err
	}

	if err := mgr.Write(ctx, doc, strings.ReplaceAll(doc.Text, ">>>", ":deep")); err != nil {
		return err
	}
*/
package status
