package lanemap

import (
	"github.com/lintang-b-s/lanemap/pkg/geo"
	"github.com/spf13/viper"
)

type Config struct {
	CellLen             float64 // cell length along the shorter bound, meters
	Buffer              float64 // polygon buffer margin, meters
	SplineStep          float64 // resample step of boundary splines, meters
	StrictTopology      bool    // abort on cyclic or ambiguous lanelet order
	MaxCells            int     // default lookahead count for Match and MatchFrenet
	Origin              geo.Coordinate
	UseLocalCoordinates bool // prefer local_x/local_y node tags over projection
	WarmWorkers         int
}

func DefaultConfig() Config {
	return Config{
		CellLen:             10,
		Buffer:              0,
		SplineStep:          1,
		StrictTopology:      true,
		MaxCells:            5,
		UseLocalCoordinates: true,
		WarmWorkers:         4,
	}
}

func setDefaults() {
	def := DefaultConfig()
	viper.SetDefault("map.cell_len", def.CellLen)
	viper.SetDefault("map.buffer", def.Buffer)
	viper.SetDefault("map.spline_step", def.SplineStep)
	viper.SetDefault("map.strict_topology", def.StrictTopology)
	viper.SetDefault("map.max_cells", def.MaxCells)
	viper.SetDefault("map.origin_lat", def.Origin.Lat)
	viper.SetDefault("map.origin_lon", def.Origin.Lon)
	viper.SetDefault("map.use_local_coordinates", def.UseLocalCoordinates)
	viper.SetDefault("map.warm_workers", def.WarmWorkers)
}

// ConfigFromViper. map.* keys of the global viper instance, defaults applied for missing keys.
func ConfigFromViper() Config {
	setDefaults()
	return Config{
		CellLen:             viper.GetFloat64("map.cell_len"),
		Buffer:              viper.GetFloat64("map.buffer"),
		SplineStep:          viper.GetFloat64("map.spline_step"),
		StrictTopology:      viper.GetBool("map.strict_topology"),
		MaxCells:            viper.GetInt("map.max_cells"),
		Origin:              geo.NewCoordinate(viper.GetFloat64("map.origin_lat"), viper.GetFloat64("map.origin_lon")),
		UseLocalCoordinates: viper.GetBool("map.use_local_coordinates"),
		WarmWorkers:         viper.GetInt("map.warm_workers"),
	}
}

func (c Config) validate() error {
	if c.CellLen <= 0 {
		return ErrBadConfig
	}
	if c.SplineStep <= 0 || c.Buffer < 0 || c.MaxCells < 1 {
		return ErrBadConfig
	}
	return nil
}
