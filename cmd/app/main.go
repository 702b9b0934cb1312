package main

import (
	"github.com/humanbelnik/movienight/core/internal/app"
	"github.com/humanbelnik/movienight/core/internal/config"
)

// @title Movie night API
// @version 1.0
// @description Group movie recommendations from the members' watchlists.
// @BasePath /api/v1
func main() {
	app.Go(config.Load())
}
