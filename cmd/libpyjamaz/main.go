// Command libpyjamaz builds the c-shared library exporting the
// pyj_version/pyj_optimize/pyj_free_result/pyj_cleanup symbols
// defined in package capi. Build with:
//
//	go build -buildmode=c-shared -o libpyjamaz.so ./cmd/libpyjamaz
package main

import "C"

import (
	_ "github.com/shamspias/pyjamaz/capi"
)

func main() {}
