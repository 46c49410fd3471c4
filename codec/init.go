package codec

// init registers every built-in codec with the default registry so
// callers only need to import the codec package, not each codec file,
// to get the full format set (mirrors the DICOM codec library's
// pattern of self-registering implementations via package-level
// Register calls).
func init() {
	Register(JPEGCodec)
	Register(PNGCodec)
	Register(WebPCodec)
	Register(AVIFCodec)
}
