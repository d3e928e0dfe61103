// Copyright 2023 LiveKit, Inc.
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

package configtest

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"go.uber.org/multierr"
)

type checker struct {
	pkgPath string
	seen    map[reflect.Type]struct{}
}

func (c *checker) check(t reflect.Type) error {
	if _, ok := c.seen[t]; ok {
		return nil
	}
	c.seen[t] = struct{}{}

	switch t.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.Pointer:
		return c.check(t.Elem())
	case reflect.Struct:
		if t.PkgPath() != c.pkgPath {
			// types owned by other modules follow their own conventions
			return nil
		}

		var errs error
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			parts := strings.Split(field.Tag.Get("yaml"), ",")
			if parts[0] == "-" {
				continue
			}
			if slices.Contains(parts, "inline") {
				errs = multierr.Append(errs, c.check(field.Type))
				continue
			}

			if parts[0] == "" {
				errs = multierr.Append(errs, fmt.Errorf("%s.%s missing yaml name", t.Name(), field.Name))
			} else if parts[0] != strings.ToLower(parts[0]) {
				errs = multierr.Append(errs, fmt.Errorf("%s.%s yaml name %q must be snake_case", t.Name(), field.Name, parts[0]))
			}
			if field.Type.Kind() != reflect.Bool && !slices.Contains(parts, "omitempty") {
				errs = multierr.Append(errs, fmt.Errorf("%s.%s missing omitempty tag", t.Name(), field.Name))
			}

			errs = multierr.Append(errs, c.check(field.Type))
		}
		return errs
	default:
		return nil
	}
}

// CheckYAMLTags reports config fields without a snake_case yaml name or an
// omitempty option. Only structs declared in the same package as config are checked.
func CheckYAMLTags(config any) error {
	t := reflect.TypeOf(config)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	c := &checker{pkgPath: t.PkgPath(), seen: map[reflect.Type]struct{}{}}
	return c.check(t)
}
