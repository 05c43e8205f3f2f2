// Package metadata loads the site master workbook and per-site variable
// maps that drive column selection and output naming in the CLIs. It is
// deliberately thin: the conditioning and merge layers never consult
// metadata directly.
package metadata

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	"fluxkit/internal/config"
	"fluxkit/internal/errors"
)

// Site is one row of the site master workbook.
type Site struct {
	Name      string  `validate:"required"`
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
	Elevation float64 `validate:"gte=-430,lte=9000"`
	// TimeStep is the site's sampling interval in minutes.
	TimeStep  int     `validate:"timestep"`
	UTCOffset float64 `validate:"gte=-12,lte=14"`
}

const siteSheet = "Sites"

// newSiteValidator builds the validator used for site rows, including
// the custom timestep rule: a site's sampling interval must be one of
// the supported logger time steps.
func newSiteValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("timestep", func(fl validator.FieldLevel) bool {
		switch time.Duration(fl.Field().Int()) * time.Minute {
		case config.TimeStepFast, config.TimeStepStandard, config.TimeStepSlow:
			return true
		}
		return false
	})
	return v
}

// LoadSiteMaster reads the "Sites" sheet of the site master workbook.
// Expected columns: site name, latitude, longitude, elevation, time step
// (minutes), UTC offset. Rows failing validation are rejected with a
// validation error naming the row.
func LoadSiteMaster(path string) ([]Site, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open site master workbook", err).
			WithContext("file", path)
	}
	defer f.Close()

	rows, err := f.GetRows(siteSheet)
	if err != nil {
		return nil, errors.NewParsingError(
			fmt.Sprintf("site master workbook has no %q sheet", siteSheet), err).
			WithContext("file", path)
	}
	if len(rows) < 2 {
		return nil, errors.NewParsingError("site master sheet has no data rows", nil).
			WithContext("file", path)
	}

	v := newSiteValidator()
	var sites []Site
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		site, err := parseSiteRow(row)
		if err != nil {
			return nil, errors.NewParsingError(
				fmt.Sprintf("bad site master row %d", i+2), err).
				WithContext("file", path)
		}
		if err := v.Struct(site); err != nil {
			return nil, errors.NewValidationError(
				fmt.Sprintf("site master row %d (%s) failed validation: %v", i+2, site.Name, err)).
				WithContext("file", path)
		}
		sites = append(sites, site)
	}
	return sites, nil
}

// SiteByName looks a site up in the loaded master list.
func SiteByName(sites []Site, name string) (Site, bool) {
	for _, s := range sites {
		if s.Name == name {
			return s, true
		}
	}
	return Site{}, false
}

func parseSiteRow(row []string) (Site, error) {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	site := Site{Name: get(0)}

	var err error
	if site.Latitude, err = strconv.ParseFloat(get(1), 64); err != nil {
		return Site{}, fmt.Errorf("latitude: %w", err)
	}
	if site.Longitude, err = strconv.ParseFloat(get(2), 64); err != nil {
		return Site{}, fmt.Errorf("longitude: %w", err)
	}
	if site.Elevation, err = strconv.ParseFloat(get(3), 64); err != nil {
		return Site{}, fmt.Errorf("elevation: %w", err)
	}
	if site.TimeStep, err = strconv.Atoi(get(4)); err != nil {
		return Site{}, fmt.Errorf("time step: %w", err)
	}
	if site.UTCOffset, err = strconv.ParseFloat(get(5), 64); err != nil {
		return Site{}, fmt.Errorf("utc offset: %w", err)
	}
	return site, nil
}
