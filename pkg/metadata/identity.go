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

package metadata

import (
	"context"
	"os/user"

	"gitlab.com/tozd/go/errors"
)

// 👤 IdentityResolver maps a numeric owner id to a user name
type IdentityResolver interface {
	Username(ctx context.Context, uid string) (string, error)
}

// OSIdentity resolves owners through the local user database
type OSIdentity struct{}

var _ IdentityResolver = OSIdentity{}

func (OSIdentity) Username(ctx context.Context, uid string) (string, error) {
	u, err := user.LookupId(uid)
	if err != nil {
		return "", errors.Errorf("looking up uid %s: %w", uid, err)
	}
	return u.Username, nil
}
