// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads client configuration from a file and the
// environment, validates it, and assembles a routex.Client with the
// configured plugins.
//
// A configuration file may be YAML, JSON or TOML:
//
//	base_url: https://api.example.com
//	timeout: 2s
//	retry:
//	  times: 3
//	  base: 100ms
//	  max: 2s
//	rate_limit:
//	  rps: 20
//	  burst: 5
//	log:
//	  level: debug
//	  format: console
//	headers:
//	  User-Agent: my-service/1.0
//
// Every scalar key may be overridden from the environment with the
// ROUTEX_ prefix, nested keys joined by underscores, for example
// ROUTEX_RETRY_TIMES=5.
package config
