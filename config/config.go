package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver          string
	DBDSN             string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	Location          *time.Location
	StrictTransitions bool
	SeedTables        bool

	CORSOrigin     string
	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel  string
	LogFormat string

	StaffJWTSecret    string
	StaffPasswordHash string
	TokenTTL          time.Duration

	NATSURL     string
	NATSSubject string

	Booking Booking
}

// Booking holds the restaurant's reservation window. Empty values disable the rule.
type Booking struct {
	ClosedDays    []time.Weekday
	OpensAt       string
	LastSeating   string
	RequireFuture bool
}

// AuthEnabled reports whether staff routes require a token.
func (c *Config) AuthEnabled() bool {
	return c.StaffJWTSecret != ""
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, mostly for tests.
func FromEnv(getenv func(string) string) (*Config, error) {
	r := reader{getenv: getenv}

	cfg := &Config{
		Port:              r.getString("PORT", "5000"),
		GinMode:           r.getString("GIN_MODE", "debug"),
		DBDriver:          strings.ToLower(r.getString("DB_DRIVER", "sqlite")),
		DBDSN:             r.getString("DB_DSN", "reservations.db"),
		DBMaxOpenConns:    r.getInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    r.getInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: r.getDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		StrictTransitions: r.getBool("STRICT_STATUS_TRANSITIONS", true),
		SeedTables:        r.getBool("SEED_TABLES", false),
		CORSOrigin:        r.getString("CORS_ORIGIN", "*"),
		RateLimitRPS:      r.getFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:    r.getInt("RATE_LIMIT_BURST", 40),
		LogLevel:          r.getString("LOG_LEVEL", "info"),
		LogFormat:         r.getString("LOG_FORMAT", "text"),
		StaffJWTSecret:    r.getString("STAFF_JWT_SECRET", ""),
		StaffPasswordHash: r.getString("STAFF_PASSWORD_HASH", ""),
		TokenTTL:          r.getDuration("TOKEN_TTL", 12*time.Hour),
		NATSURL:           r.getString("NATS_URL", ""),
		NATSSubject:       r.getString("NATS_SUBJECT", "reservations.events"),
		Booking: Booking{
			ClosedDays:    r.getWeekdays("BOOKING_CLOSED_DAYS"),
			OpensAt:       r.getClock("BOOKING_OPENS_AT"),
			LastSeating:   r.getClock("BOOKING_LAST_SEATING"),
			RequireFuture: r.getBool("BOOKING_REQUIRE_FUTURE", false),
		},
	}

	tz := r.getString("TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		r.fail("TIMEZONE", tz, err)
	} else {
		cfg.Location = loc
	}

	switch cfg.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		r.fail("DB_DRIVER", cfg.DBDriver, fmt.Errorf("expected sqlite, mysql or postgres"))
	}

	if cfg.AuthEnabled() && cfg.StaffPasswordHash == "" {
		r.fail("STAFF_PASSWORD_HASH", "", fmt.Errorf("required when STAFF_JWT_SECRET is set"))
	}

	if len(r.errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(r.errs, "; "))
	}
	return cfg, nil
}

type reader struct {
	getenv func(string) string
	errs   []string
}

func (r *reader) fail(key, value string, err error) {
	r.errs = append(r.errs, fmt.Sprintf("%s=%q: %v", key, value, err))
}

func (r *reader) getString(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *reader) getInt(key string, def int) int {
	v := r.getString(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return n
}

func (r *reader) getFloat(key string, def float64) float64 {
	v := r.getString(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return f
}

func (r *reader) getBool(key string, def bool) bool {
	v := r.getString(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return b
}

func (r *reader) getDuration(key string, def time.Duration) time.Duration {
	v := r.getString(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return d
}

func (r *reader) getClock(key string) string {
	v := r.getString(key, "")
	if v == "" {
		return ""
	}
	t, err := time.Parse("15:04", v)
	if err != nil {
		r.fail(key, v, err)
		return ""
	}
	return t.Format("15:04")
}

func (r *reader) getWeekdays(key string) []time.Weekday {
	v := r.getString(key, "")
	if v == "" {
		return nil
	}
	var days []time.Weekday
	for _, name := range strings.Split(v, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		day, ok := weekdayNames[name]
		if !ok {
			r.fail(key, name, fmt.Errorf("unknown weekday"))
			continue
		}
		days = append(days, day)
	}
	return days
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}
