package cmd

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	weatherLat  float64
	weatherLon  float64
	weatherCity string
)

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Show the weather and air quality widgets",
	Long: `Show the weather and air quality the server reports. Without --lat and
--lon the server locates this machine by IP.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
			q.Set("lat", strconv.FormatFloat(weatherLat, 'f', -1, 64))
			q.Set("lon", strconv.FormatFloat(weatherLon, 'f', -1, 64))
		}
		if weatherCity != "" {
			q.Set("city", weatherCity)
		}

		ctx, cancel := commandContext()
		defer cancel()
		view, err := remote.Weather(ctx, q)
		if err != nil {
			return err
		}

		_, _ = heading.Printf("%s", view.Location.City)
		_, _ = muted.Printf("  (%.4f, %.4f, %s)\n", view.Location.Lat, view.Location.Lon, view.Location.Source)

		if w := view.Weather; w != nil {
			fmt.Printf("%s %d°C (feels %d°C), %d°C / %d°C, wind %.1f km/h, humidity %.0f%%\n",
				w.Condition, w.Temp, w.FeelsLike, w.MinTemp, w.MaxTemp, w.WindSpeed, w.Humidity)
		} else {
			warn("weather unavailable")
		}

		if a := view.AirQuality; a != nil {
			fmt.Printf("AQI %d %s\n", a.AQI, a.Label)
		} else {
			warn("air quality unavailable")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(weatherCmd)
	weatherCmd.Flags().Float64Var(&weatherLat, "lat", 0, "latitude")
	weatherCmd.Flags().Float64Var(&weatherLon, "lon", 0, "longitude")
	weatherCmd.Flags().StringVar(&weatherCity, "city", "", "label for the coordinates")
}
