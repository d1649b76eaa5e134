// Package stubbackend is an in-process stand-in for the facility calculation
// service. It serves the same three endpoints with the same JSON shapes,
// including the 422 validation envelope, so the client and both front ends can
// run without the real service.
package stubbackend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rshade/enviroimpact/internal/api"
)

const shutdownTimeout = 5 * time.Second

// Server serves the stub endpoints.
type Server struct {
	router  *gin.Engine
	logger  zerolog.Logger
	latency time.Duration
	broken  map[string]bool
}

// Option configures a Server.
type Option func(*Server)

// WithLatency delays every response by d.
func WithLatency(d time.Duration) Option {
	return func(s *Server) { s.latency = d }
}

// WithBrokenEndpoint makes path answer 503 with a plain-text body.
func WithBrokenEndpoint(path string) Option {
	return func(s *Server) { s.broken[path] = true }
}

// WithLogger sets the request logger. The default discards.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New builds a Server with its routes registered.
func New(opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		logger: zerolog.Nop(),
		broken: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.faults())
	r.GET(api.PathRegions, s.handleRegions)
	r.GET(api.PathFacilityTypes, s.handleFacilityTypes)
	r.POST(api.PathCalculate, s.handleCalculate)
	s.router = r
	return s
}

// Handler returns the HTTP handler, for httptest servers.
func (s *Server) Handler() http.Handler { return s.router }

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logger.Info().Str("addr", addr).Msg("stub backend listening")

	select {
	case err := <-errCh:
		return fmt.Errorf("stub backend: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("stub backend shutdown: %w", err)
	}
	s.logger.Info().Msg("stub backend stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Str("trace_id", c.GetHeader("X-Trace-Id")).
			Dur("duration_ms", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) faults() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.latency > 0 {
			select {
			case <-time.After(s.latency):
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}
		if s.broken[c.Request.URL.Path] {
			c.String(http.StatusServiceUnavailable, "service unavailable")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) handleRegions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"regions": sortedKeys(regions)})
}

func (s *Server) handleFacilityTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"facility_types": sortedKeys(facilities)})
}

type calculateBody struct {
	Region               *string  `json:"region"`
	FacilityType         *string  `json:"facility_type"`
	Size                 *string  `json:"size"`
	CustomKwh            *float64 `json:"custom_kwh"`
	UsagePattern         *string  `json:"usage_pattern"`
	CustomEmissionFactor *float64 `json:"custom_emission_factor"`
	CustomPricePerKwh    *float64 `json:"custom_price_per_kwh"`
}

func (s *Server) handleCalculate(c *gin.Context) {
	var body calculateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{
			fieldError("invalid JSON body", "value_error.jsondecode", "body"),
		}})
		return
	}

	if problems := validate(body); len(problems) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": problems})
		return
	}

	reg, ok := regions[*body.Region]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("region %q not found", *body.Region)})
		return
	}
	fac, ok := facilities[*body.FacilityType]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "facility not found"})
		return
	}

	c.JSON(http.StatusOK, calculate(body, reg, fac))
}

func validate(b calculateBody) []gin.H {
	var problems []gin.H
	required := []struct {
		name  string
		value *string
	}{
		{"region", b.Region},
		{"facility_type", b.FacilityType},
		{"size", b.Size},
		{"usage_pattern", b.UsagePattern},
	}
	for _, r := range required {
		if r.value == nil || strings.TrimSpace(*r.value) == "" {
			problems = append(problems, fieldError("field required", "value_error.missing", "body", r.name))
		}
	}
	if b.Size != nil && *b.Size != "" {
		if _, ok := sizeMultipliers[*b.Size]; !ok {
			problems = append(problems, fieldError(
				"value is not a valid enumeration member; permitted: 'small', 'medium', 'large'",
				"type_error.enum", "body", "size"))
		}
	}
	if b.UsagePattern != nil && *b.UsagePattern != "" {
		if _, ok := usageModifiers[*b.UsagePattern]; !ok {
			problems = append(problems, fieldError(
				"value is not a valid enumeration member; permitted: 'office_hours', 'extended_hours', 'continuous'",
				"type_error.enum", "body", "usage_pattern"))
		}
	}
	optional := []struct {
		name  string
		value *float64
	}{
		{"custom_kwh", b.CustomKwh},
		{"custom_emission_factor", b.CustomEmissionFactor},
		{"custom_price_per_kwh", b.CustomPricePerKwh},
	}
	for _, o := range optional {
		if o.value != nil && *o.value <= 0 {
			problems = append(problems, fieldError(
				"ensure this value is greater than 0", "value_error.number.not_gt", "body", o.name))
		}
	}
	return problems
}

func fieldError(msg, typ string, loc ...string) gin.H {
	return gin.H{"loc": loc, "msg": msg, "type": typ}
}

// calculate derives the result in decimal and rounds every reported figure
// to two places, four for prices.
func calculate(b calculateBody, reg region, fac facility) gin.H {
	baseline := decimal.NewFromFloat(fac.BaselineKwh)
	sizeMult := decimal.NewFromFloat(sizeMultipliers[*b.Size])
	usageMod := decimal.NewFromFloat(usageModifiers[*b.UsagePattern])
	industryMod := decimal.NewFromFloat(fac.IndustryModifier)

	benchmarkKwh := baseline.Mul(sizeMult)
	kwh := benchmarkKwh.Mul(usageMod)
	metadata := gin.H{}
	if b.CustomKwh != nil {
		kwh = decimal.NewFromFloat(*b.CustomKwh)
	} else {
		metadata["estimated_baseline_kwh"] = baseline.InexactFloat64()
		metadata["size_multiplier"] = sizeMult.InexactFloat64()
	}

	ef := decimal.NewFromFloat(reg.EmissionKg)
	if b.CustomEmissionFactor != nil {
		ef = decimal.NewFromFloat(*b.CustomEmissionFactor)
	}

	rawPrice := decimal.NewFromFloat(reg.SpotPrice)
	if b.CustomPricePerKwh != nil {
		rawPrice = decimal.NewFromFloat(*b.CustomPricePerKwh)
	}
	fee := decimal.NewFromFloat(gridFee)
	finalPrice := rawPrice.Add(fee)
	if !reg.VatExempt {
		finalPrice = finalPrice.Mul(decimal.NewFromFloat(1 + vatRate))
	}
	finalPrice = finalPrice.Round(4)

	co2 := kwh.Mul(ef)
	cost := kwh.Mul(finalPrice).Mul(industryMod)

	target := gin.H{"target_kwh": nil, "target_co2": nil, "target_cost": nil}
	if fac.HasBenchmark {
		targetKwh := benchmarkKwh.Mul(decimal.NewFromFloat(bestPracticeFactor))
		target["target_kwh"] = round2(targetKwh)
		target["target_co2"] = round2(targetKwh.Mul(ef))
		target["target_cost"] = round2(targetKwh.Mul(finalPrice).Mul(industryMod))
	}

	metadata["emission_factor_used"] = ef.InexactFloat64()
	metadata["raw_price"] = rawPrice.InexactFloat64()
	metadata["grid_fee_added"] = fee.InexactFloat64()
	metadata["is_vat_exempt"] = reg.VatExempt
	metadata["final_price"] = finalPrice.InexactFloat64()
	metadata["industry_class"] = fac.IndustryClass
	metadata["industry_modifier"] = industryMod.InexactFloat64()
	metadata["best_practice_target"] = target

	return gin.H{
		"estimated_kwh":      round2(kwh),
		"estimated_co2_kg":   round2(co2),
		"estimated_cost_nok": round2(cost),
		"metadata":           metadata,
	}
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
