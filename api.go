package mandel

// Renderer turns a viewport into an assembled raster.
type Renderer interface {
	Render(v Viewport) (Raster, error)
}

// RasterProvider hands out a finished raster, blocking until it is ready.
type RasterProvider interface {
	GetRaster() (Raster, error)
}
