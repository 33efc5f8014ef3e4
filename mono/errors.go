// Copyright (c) 2023, The Mono Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mono

import "fmt"

// ConfigError reports an invalid configuration value.  All configuration
// validation failures surface as this one type; they are raised synchronously
// at Init (or at first Filter for input-shape problems) and are not
// recoverable within the call -- correct the configuration and reinitialize.
type ConfigError struct {
	Option string      `desc:"name of the offending configuration option"`
	Value  interface{} `desc:"the rejected value"`
	Reason string      `desc:"what the valid range is"`
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("mono: invalid %s = %v: %s", e.Option, e.Value, e.Reason)
}
