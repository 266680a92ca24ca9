package metadata

/**
 * @brief Decoded image ready for upload.
 * Pixels are tightly packed RGBA8 with the first row at the bottom,
 * matching the texture origin of the driver.
 */
type ImageData struct {
	Path   string
	Width  int32
	Height int32
	Pixels []uint8
}

/** @brief Parameters used when loading an image. */
type ImageParams struct {
	/** @brief Indicates if the image should be flipped on the y-axis when loaded. */
	FlipY bool
	/** @brief Largest allowed width or height; bigger images are downscaled. 0 disables the limit. */
	MaxSize int
}
