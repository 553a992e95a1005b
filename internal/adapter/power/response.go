package power

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/couchcryptid/climate-stats-service/internal/domain"
)

// POWER parameter names, in request order.
const (
	paramTempMax    = "T2M_MAX"
	paramTempMin    = "T2M_MIN"
	paramPrecip     = "PRECTOTCORR"
	paramWind       = "WS10M"
	paramHumidity   = "RH2M"
	paramPressure   = "PS"
	paramIrradiance = "ALLSKY_SFC_SW_DWN"
	paramSnowDepth  = "SNODP"
)

// Parameters is the comma-separated parameter list sent to the API.
var Parameters = strings.Join([]string{
	paramTempMax, paramTempMin, paramPrecip, paramWind,
	paramHumidity, paramPressure, paramIrradiance, paramSnowDepth,
}, ",")

const (
	defaultFillValue = -999.0
	dateLayout       = "20060102"
	cmToMM           = 10
)

var errEmptySeries = errors.New("response contains no daily values")

type response struct {
	Header struct {
		FillValue *float64 `json:"fill_value"`
	} `json:"header"`
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
	Messages []string `json:"messages"`
}

// ParseResponse decodes a POWER daily point JSON body into date-sorted
// records. The fill value (header.fill_value, -999 when absent) and
// parameters missing from the body become NaN. Snow depth arrives in
// centimeters and is stored in millimeters.
func ParseResponse(r io.Reader) ([]domain.DailyRecord, error) {
	var resp response
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode power response: %w", err)
	}

	fill := defaultFillValue
	if resp.Header.FillValue != nil {
		fill = *resp.Header.FillValue
	}

	params := resp.Properties.Parameter
	dates := make(map[string]struct{})
	for _, series := range params {
		for d := range series {
			dates[d] = struct{}{}
		}
	}
	if len(dates) == 0 {
		if len(resp.Messages) > 0 {
			return nil, fmt.Errorf("%w: %s", errEmptySeries, strings.Join(resp.Messages, "; "))
		}
		return nil, errEmptySeries
	}

	value := func(param, key string) float64 {
		v, ok := params[param][key]
		if !ok || v == fill {
			return math.NaN()
		}
		return v
	}

	records := make([]domain.DailyRecord, 0, len(dates))
	for key := range dates {
		day, err := time.Parse(dateLayout, key)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", key, err)
		}
		records = append(records, domain.DailyRecord{
			Date:          day,
			TempMaxC:      value(paramTempMax, key),
			TempMinC:      value(paramTempMin, key),
			PrecipMM:      value(paramPrecip, key),
			WindMS:        value(paramWind, key),
			HumidityPct:   value(paramHumidity, key),
			PressureKPa:   value(paramPressure, key),
			IrradianceKWh: value(paramIrradiance, key),
			SnowDepthMM:   value(paramSnowDepth, key) * cmToMM,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}
