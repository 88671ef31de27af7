package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// reverseResponse is the JSON body of GET /reverse?format=json.
type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
	Address     struct {
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		Country     string `json:"country"`
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

// Reverse resolves (lat, lon) to a Place. The place name is the first
// non-empty of city, town, village and display name.
func (n *nominatim) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	if n.limiter != nil {
		if err := n.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "geocode: rate limit")
		}
	}

	params := url.Values{
		"lat":    {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(lon, 'f', -1, 64)},
		"format": {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: build request")
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: read body")
	}

	if resp.StatusCode != http.StatusOK {
		zap.L().Debug("geocode: non-200 response",
			zap.Int("status", resp.StatusCode),
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
		)
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var rr reverseResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return nil, eris.Wrap(err, "geocode: parse response")
	}

	place := &Place{
		DisplayName: rr.DisplayName,
		City:        rr.Address.City,
		Town:        rr.Address.Town,
		Village:     rr.Address.Village,
		Country:     rr.Address.Country,
		CountryCode: rr.Address.CountryCode,
	}
	place.Name = firstNonEmpty(place.City, place.Town, place.Village, place.DisplayName)
	if place.Name == "" {
		if rr.Error != "" {
			return nil, eris.Errorf("geocode: %s", rr.Error)
		}
		return nil, eris.New("geocode: no place name in response")
	}

	return place, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
