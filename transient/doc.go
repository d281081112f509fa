// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies transport failures as transient or
// non-transient. The retry plugin uses it to decide whether a failed
// exchange is worth another attempt, and the logging and metrics
// plugins use the category name as a label.
//
// Package transient depends only on the standard library so it can be
// imported from anywhere in the module without cycles.
package transient
