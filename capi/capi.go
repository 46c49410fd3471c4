// Package capi exposes the optimizer through a C ABI, mirroring
// vulkango's cgo struct-marshalling idiom (calloc the C-visible
// struct, fill it field by field, CString any string fields, free on
// the error path) but in the opposite direction: here Go allocates
// and owns the structs C reads, instead of Go filling structs a C
// library reads.
package capi

/*
#include <stdlib.h>

typedef struct {
	const unsigned char *input_bytes;
	size_t input_len;
	unsigned int max_bytes;
	double max_diff;
	unsigned char metric;
	const unsigned char *formats;
	size_t formats_len;
	unsigned int concurrency;
	unsigned char cache_enabled;
	const unsigned char *cache_dir;
	size_t cache_dir_len;
	unsigned long long cache_max_size;
} pyj_options;

typedef struct {
	unsigned char *output_bytes;
	size_t output_len;
	unsigned char format;
	double diff_value;
	unsigned char passed;
	char *error_message;
	size_t error_len;
} pyj_result;
*/
import "C"

import (
	"unsafe"

	"github.com/shamspias/pyjamaz"
	"github.com/shamspias/pyjamaz/cache"
	"github.com/shamspias/pyjamaz/engine"
)

// maxOutputBytes and maxErrorMessage are the ABI boundary's sanity
// caps: an output over 100 MiB is treated as suspicious and rejected
// before it crosses back into C, and an error message over 1 KiB is
// truncated to 1 KiB.
const (
	maxOutputBytes  = 100 << 20
	maxErrorMessage = 1 << 10
	maxPathLen      = 4096
	maxBytesCeiling = 1 << 32 // u32 field width, enforced explicitly for clarity
)

var versionString = C.CString("pyjamaz/1.0")

// pyj_version returns a static, non-owned version string.
//
//export pyj_version
func pyj_version() *C.char {
	return versionString
}

// pyj_optimize runs one optimization and heap-allocates the result.
// The caller must pass the returned pointer to pyj_free_result
// exactly once.
//
//export pyj_optimize
func pyj_optimize(opts *C.pyj_options) *C.pyj_result {
	result := (*C.pyj_result)(C.calloc(1, C.size_t(unsafe.Sizeof(C.pyj_result{}))))
	if opts == nil {
		setError(result, "null options pointer")
		return result
	}

	req, err := decodeOptions(opts)
	if err != nil {
		setError(result, err.Error())
		return result
	}

	res := engine.Optimize(req)
	if res.Err != nil {
		setError(result, res.Err.Error())
		return result
	}
	if res.Selected == nil {
		// NoPassingCandidate: ran to completion, not a hard error.
		result.passed = 0
		return result
	}

	data := res.Selected.Data
	if len(data) == 0 || len(data) > maxOutputBytes {
		setError(result, "optimization produced a suspicious output size")
		return result
	}

	result.output_bytes = (*C.uchar)(C.CBytes(data))
	result.output_len = C.size_t(len(data))
	result.format = C.uchar(res.Selected.Format.Byte())
	result.diff_value = C.double(res.Selected.Diff)
	result.passed = 1
	return result
}

// pyj_free_result releases the result struct and every heap field it
// owns. Safe to call with a nil pointer. Not safe to call twice on
// the same pointer (the caller owns exactly one free per optimize
// call, the same discipline as C.free on a malloc'd block).
//
//export pyj_free_result
func pyj_free_result(r *C.pyj_result) {
	if r == nil {
		return
	}
	if r.output_bytes != nil {
		C.free(unsafe.Pointer(r.output_bytes))
	}
	if r.error_message != nil {
		C.free(unsafe.Pointer(r.error_message))
	}
	C.free(unsafe.Pointer(r))
}

// pyj_cleanup releases process-global resources: the lazily-opened
// default cache handle.
//
//export pyj_cleanup
func pyj_cleanup() {
	engine.Shutdown()
}

func setError(result *C.pyj_result, msg string) {
	if len(msg) > maxErrorMessage {
		msg = msg[:maxErrorMessage]
	}
	result.error_message = C.CString(msg)
	result.error_len = C.size_t(len(msg))
	result.output_len = 0
}

func decodeOptions(opts *C.pyj_options) (engine.Request, error) {
	if opts.input_bytes == nil || opts.input_len == 0 {
		return engine.Request{}, pyjamaz.NewError(pyjamaz.KindInvalidArgument, "empty input")
	}
	if uint64(opts.input_len) > maxBytesCeiling {
		return engine.Request{}, pyjamaz.NewError(pyjamaz.KindInvalidArgument, "input exceeds 4 GiB ceiling")
	}
	if opts.formats == nil || opts.formats_len == 0 {
		return engine.Request{}, pyjamaz.NewError(pyjamaz.KindInvalidArgument, "empty formats list")
	}

	inputBytes := C.GoBytes(unsafe.Pointer(opts.input_bytes), C.int(opts.input_len))

	formatBytes := C.GoBytes(unsafe.Pointer(opts.formats), C.int(opts.formats_len))
	formats := make([]pyjamaz.FormatTag, 0, len(formatBytes))
	for _, b := range formatBytes {
		tag, err := pyjamaz.FormatTagFromByte(b)
		if err != nil {
			return engine.Request{}, err
		}
		formats = append(formats, tag)
	}

	metric, err := pyjamaz.MetricFromByte(byte(opts.metric))
	if err != nil {
		return engine.Request{}, err
	}

	req := engine.Request{
		Bytes:       inputBytes,
		MaxBytes:    int(opts.max_bytes),
		MaxDiff:     float64(opts.max_diff),
		Metric:      metric,
		Formats:     formats,
		Concurrency: int(opts.concurrency),
	}

	if opts.cache_enabled != 0 {
		if opts.cache_dir == nil || opts.cache_dir_len == 0 {
			return engine.Request{}, pyjamaz.NewError(pyjamaz.KindInvalidArgument, "cache enabled with empty cache_dir")
		}
		if opts.cache_dir_len > maxPathLen {
			return engine.Request{}, pyjamaz.NewError(pyjamaz.KindInvalidArgument, "cache_dir exceeds path length cap")
		}
		dir := C.GoStringN((*C.char)(unsafe.Pointer(opts.cache_dir)), C.int(opts.cache_dir_len))
		maxSize := int64(opts.cache_max_size)
		if maxSize <= 0 {
			maxSize = cache.DefaultMaxSize
		}
		c, err := engine.DefaultCache(dir, maxSize)
		if err == nil {
			req.Cache = c
		}
	}

	return req, nil
}
