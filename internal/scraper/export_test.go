package scraper

var (
	IsDOMContentLoaded = isDOMContentLoaded
	IsNetworkIdle      = isNetworkIdle
)
