// Copyright 2025 Poiesic Systems
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


// Package taxonomy holds the two-level category tree and its keyword sets.
//
// Each node (a major category or one of its subcategories) carries three sets:
//
//   - auto: keywords harvested by discovery, replaced wholesale on every run
//   - user: keywords added and removed explicitly
//   - enabled: the keywords that take part in analysis
//
// enabled is always a subset of auto ∪ user. It is derived from a per-keyword
// flag map, so a keyword that was switched off stays off when discovery
// replaces the auto set and the keyword is harvested again.
//
// # Persistence
//
// Store.Document and FromDocument convert to and from the JSON document other
// tooling reads:
//
//	{
//	  "화장품/미용": {
//	    "auto_keywords": [...],
//	    "user_keywords": [...],
//	    "enabled_keywords": [...],
//	    "subcategories": {
//	      "스킨케어": {"auto_keywords": [...], "user_keywords": [...], "enabled_keywords": [...]}
//	    }
//	  }
//	}
//
// FileRepository reads and writes that document with timestamped backups.
package taxonomy
