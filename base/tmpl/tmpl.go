// Copyright 2025 Google LLC
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


// Package tmpl provides helper functions for Go templates.
package tmpl

import (
	"io"
	"text/template"

	"github.com/pkg/errors"
)

// Parse parses a template writing one line per object.
// A new line is appended to the template if it does not end with one.
func Parse(name, text string) (*template.Template, error) {
	if len(text) == 0 || text[len(text)-1] != '\n' {
		text += "\n"
	}
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse template %s", name)
	}
	return tmpl, nil
}

// Iterate executes a template for every object of a slice.
func Iterate[T any](w io.Writer, objs []T, tmpl *template.Template) error {
	for _, obj := range objs {
		if err := tmpl.Execute(w, obj); err != nil {
			return errors.Errorf("cannot execute template %s on %#v: %v", tmpl.Name(), obj, err)
		}
	}
	return nil
}
