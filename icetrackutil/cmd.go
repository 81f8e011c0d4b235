/*
Copyright © 2024 the ICETrack authors.
This file is part of ICETrack.

ICETrack is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ICETrack is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ICETrack.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package icetrackutil holds the configuration and commands of the
// icetrack command-line tool.
package icetrackutil

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/polarmodel/icetrack"
	"github.com/polarmodel/icetrack/cmr"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to ICETrack.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel sets the logging verbosity: panic, fatal, error,
              warn, info, debug, or trace.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Product",
			usage: `
              Product is the data product short name to work with:
              ATL03, ATL06, ATL11, or ATL15.`,
			shorthand:  "p",
			defaultVal: "ATL06",
			flagsets:   []*pflag.FlagSet{searchCmd.Flags(), fetchCmd.Flags()},
		},
		{
			name: "Release",
			usage: `
              Release is the data release number to search for, e.g. 6
              for release 006. Zero matches any release.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{searchCmd.Flags(), fetchCmd.Flags()},
		},
		{
			name: "Track",
			usage: `
              Track restricts results to one reference ground track
              (1-1387). Zero matches all tracks.`,
			shorthand:  "t",
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{searchCmd.Flags(), fetchCmd.Flags()},
		},
		{
			name: "Subregion",
			usage: `
              Subregion restricts results to one orbit subregion
              (1-14). Zero matches all subregions.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{searchCmd.Flags(), fetchCmd.Flags()},
		},
		{
			name: "StartDate",
			usage: `
              StartDate is the beginning of the acquisition time range
              to search, in the format 2019-01-01.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{searchCmd.Flags(), fetchCmd.Flags()},
		},
		{
			name: "EndDate",
			usage: `
              EndDate is the end of the acquisition time range to
              search, in the format 2019-12-31.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{searchCmd.Flags(), fetchCmd.Flags()},
		},
		{
			name: "CatalogURL",
			usage: `
              CatalogURL is the granule catalog search endpoint.`,
			defaultVal: cmr.DefaultURL,
			flagsets:   []*pflag.FlagSet{searchCmd.Flags(), fetchCmd.Flags()},
		},
		{
			name: "Bounds.West",
			usage: `
              Bounds.West is the western edge of the geographic search
              region, in degrees longitude.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{searchCmd.Flags(), fetchCmd.Flags(), photonCmd.Flags()},
		},
		{
			name: "Bounds.South",
			usage: `
              Bounds.South is the southern edge of the geographic search
              region, in degrees latitude.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{searchCmd.Flags(), fetchCmd.Flags(), photonCmd.Flags()},
		},
		{
			name: "Bounds.East",
			usage: `
              Bounds.East is the eastern edge of the geographic search
              region, in degrees longitude.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{searchCmd.Flags(), fetchCmd.Flags(), photonCmd.Flags()},
		},
		{
			name: "Bounds.North",
			usage: `
              Bounds.North is the northern edge of the geographic search
              region, in degrees latitude.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{searchCmd.Flags(), fetchCmd.Flags(), photonCmd.Flags()},
		},
		{
			name: "DownloadDir",
			usage: `
              DownloadDir is the directory granule files are downloaded
              to. Files already present there are not downloaded again.`,
			defaultVal: "icetrack-data",
			flagsets:   []*pflag.FlagSet{fetchCmd.Flags()},
		},
		{
			name: "EarthdataToken",
			usage: `
              EarthdataToken is an Earthdata Login bearer token used to
              authenticate downloads. It can also be set through the
              ICETRACK_EARTHDATATOKEN environment variable.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{fetchCmd.Flags()},
		},
		{
			name: "Proj",
			usage: `
              Proj gives the projected coordinate system that positions
              are transformed to, in Proj4 format. The default is the
              north polar stereographic system used by the gridded
              products.`,
			defaultVal: icetrack.NorthPolarCRS,
			flagsets: []*pflag.FlagSet{mapCmd.Flags(), seriesCmd.Flags(),
				exportCmd.Flags(), photonCmd.Flags()},
		},
		{
			name: "Groups",
			usage: `
              Groups lists the beam or pair groups to read from each
              granule, e.g. gt1l or pt2. An empty list reads all groups.`,
			defaultVal: []string{},
			flagsets: []*pflag.FlagSet{mapCmd.Flags(), seriesCmd.Flags(),
				exportCmd.Flags()},
		},
		{
			name: "Region.Name",
			usage: `
              Region.Name selects a named region of interest from the
              file given by Region.File.`,
			defaultVal: "",
			flagsets: []*pflag.FlagSet{mapCmd.Flags(), seriesCmd.Flags(),
				exportCmd.Flags(), photonCmd.Flags()},
		},
		{
			name: "Region.File",
			usage: `
              Region.File is the path to a TOML file of named regions
              of interest in projected coordinates.`,
			defaultVal: "",
			flagsets: []*pflag.FlagSet{mapCmd.Flags(), seriesCmd.Flags(),
				exportCmd.Flags(), photonCmd.Flags()},
		},
		{
			name: "Region.Xmin",
			usage: `
              Region.Xmin is the western edge of the region of interest
              in projected coordinates. Only positions strictly inside
              the region are selected.`,
			defaultVal: 0.0,
			flagsets: []*pflag.FlagSet{mapCmd.Flags(), seriesCmd.Flags(),
				exportCmd.Flags(), photonCmd.Flags()},
		},
		{
			name: "Region.Xmax",
			usage: `
              Region.Xmax is the eastern edge of the region of interest
              in projected coordinates.`,
			defaultVal: 0.0,
			flagsets: []*pflag.FlagSet{mapCmd.Flags(), seriesCmd.Flags(),
				exportCmd.Flags(), photonCmd.Flags()},
		},
		{
			name: "Region.Ymin",
			usage: `
              Region.Ymin is the southern edge of the region of interest
              in projected coordinates.`,
			defaultVal: 0.0,
			flagsets: []*pflag.FlagSet{mapCmd.Flags(), seriesCmd.Flags(),
				exportCmd.Flags(), photonCmd.Flags()},
		},
		{
			name: "Region.Ymax",
			usage: `
              Region.Ymax is the northern edge of the region of interest
              in projected coordinates.`,
			defaultVal: 0.0,
			flagsets: []*pflag.FlagSet{mapCmd.Flags(), seriesCmd.Flags(),
				exportCmd.Flags(), photonCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path the result is written to.`,
			shorthand:  "o",
			defaultVal: "output.png",
			flagsets: []*pflag.FlagSet{mapCmd.Flags(), seriesCmd.Flags(),
				exportCmd.Flags(), photonCmd.Flags()},
		},
		{
			name: "MapWidth",
			usage: `
              MapWidth is the width of rendered track maps in pixels.`,
			defaultVal: 600,
			flagsets:   []*pflag.FlagSet{mapCmd.Flags()},
		},
		{
			name: "Layer",
			usage: `
              Layer is the time layer of a gridded height-change product
              to draw.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{mapCmd.Flags()},
		},
		{
			name: "At",
			usage: `
              At gives the projected x,y position, as two numbers, that
              the height history is plotted for. The reference point
              nearest to the position is used.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{seriesCmd.Flags()},
		},
		{
			name: "SearchRadius",
			usage: `
              SearchRadius is the maximum distance, in projected units,
              between the position given by At and the reference point
              plotted.`,
			defaultVal: 10000.0,
			flagsets:   []*pflag.FlagSet{seriesCmd.Flags()},
		},
		{
			name: "show",
			usage: `
              show opens the output file in the default viewer after it
              is written.`,
			shorthand:  "s",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{mapCmd.Flags(), seriesCmd.Flags()},
		},
		{
			name: "PhotonURL",
			usage: `
              PhotonURL is the endpoint of the photon processing
              service.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{photonCmd.Flags()},
		},
		{
			name: "SurfaceType",
			usage: `
              SurfaceType selects the photon surface-fit algorithm:
              0 land, 1 ocean, 2 sea ice, 3 land ice, 4 inland water.`,
			defaultVal: 3,
			flagsets:   []*pflag.FlagSet{photonCmd.Flags()},
		},
		{
			name: "Confidence",
			usage: `
              Confidence is the minimum photon confidence level (0-4)
              included in the surface fit.`,
			defaultVal: 4,
			flagsets:   []*pflag.FlagSet{photonCmd.Flags()},
		},
		{
			name: "SegmentLength",
			usage: `
              SegmentLength is the along-track photon aggregation length
              in meters.`,
			defaultVal: 40.0,
			flagsets:   []*pflag.FlagSet{photonCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("ICETRACK")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(searchCmd)
	Root.AddCommand(fetchCmd)
	Root.AddCommand(photonCmd)
	Root.AddCommand(mapCmd)
	Root.AddCommand(seriesCmd)
	Root.AddCommand(exportCmd)
}

// setConfig finds and reads in the configuration file, if there is
// one, and sets the logging level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("icetrack: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("icetrack: %v", err)
	}
	logrus.SetLevel(level)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "icetrack",
	Short: "A satellite laser-altimetry data tool.",
	Long: `ICETrack searches for, downloads, and analyzes ICESat-2 land-ice
elevation data. Use the subcommands specified below to access the
functionality.

Refer to the subcommand documentation for configuration options and default
settings. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using
command-line arguments, or by setting environment variables in the format
'ICETRACK_var' where 'var' is the name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration
information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of ICETrack.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("ICETrack v%s\n", icetrack.Version)
	},
	DisableAutoGenTag: true,
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the granule catalog",
	Long: `search queries the granule catalog for data files matching the
product, track, subregion, region, and time range options, and prints
the matching granule names together with their sizes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		granules, err := Search(cmd.Context(), Cfg)
		if err != nil {
			return err
		}
		for _, g := range granules {
			cmd.Printf("%s\t%s MB\t%s\n", g.ID, g.Size, g.TimeStart)
		}
		cmd.Printf("%d granules\n", len(granules))
		return nil
	},
	DisableAutoGenTag: true,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download granules",
	Long: `fetch queries the granule catalog the same way search does and
downloads the matching data files into DownloadDir. Files that are
already present are skipped, so an interrupted fetch can simply be
run again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := Fetch(cmd.Context(), Cfg)
		if err != nil {
			return err
		}
		for _, p := range paths {
			cmd.Println(p)
		}
		return nil
	},
	DisableAutoGenTag: true,
}

var photonCmd = &cobra.Command{
	Use:   "photon [granule]",
	Short: "Process photon data remotely",
	Long: `photon submits a geolocated-photon granule to the remote photon
processing service, which fits height segments to the photons inside
the region of interest, and writes the returned segment table to
OutputFile as CSV.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := ProcessPhotons(cmd.Context(), Cfg, args[0])
		if err != nil {
			return err
		}
		cmd.Printf("%d segments written to %s\n", n, Cfg.GetString("OutputFile"))
		return nil
	},
	DisableAutoGenTag: true,
}

var mapCmd = &cobra.Command{
	Use:   "map [file]",
	Short: "Draw a map of a granule",
	Long: `map draws a PNG map of a downloaded granule. Along-track land-ice
heights (ATL06) are drawn as colored dots in projected coordinates,
restricted to the region of interest if one is given. Gridded
height-change files (ATL15) are drawn one pixel per grid cell for the
time layer given by Layer.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return DrawMap(Cfg, args[0])
	},
	DisableAutoGenTag: true,
}

var seriesCmd = &cobra.Command{
	Use:   "series [file]",
	Short: "Plot a height time series",
	Long: `series plots the height history of one repeat-track reference point
from a downloaded ATL11 granule. The point is chosen as the one
nearest to the projected position given by At, within SearchRadius.
The fitted height-change trend is drawn through the measurements.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return DrawSeries(Cfg, args[0])
	},
	DisableAutoGenTag: true,
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export a granule to GIS formats",
	Long: `export converts a downloaded granule for use in other tools.
Along-track land-ice heights (ATL06) are written as a point
shapefile in projected coordinates, restricted to the region of
interest if one is given. Repeat-track height series (ATL11) are
written as a NetCDF file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Export(Cfg, args[0])
	},
	DisableAutoGenTag: true,
}
