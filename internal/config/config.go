package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// OwnerAddress is seeded into the owner allow-list at startup.
	OwnerAddress string
	// TreasuryAddress holds pooled MUSD and locked collateral.
	TreasuryAddress string
	// CollateralRatioBps: MUSD minted per unit of collateral, in bps of 1:1.
	CollateralRatioBps int
	// FaucetAmount is the MBTC dispensed per faucet call (test networks only).
	FaucetAmount int64
	// TokenDecimals is the base-unit scale reported by decimals().
	TokenDecimals int
}

var reAddr = regexp.MustCompile(`^0x[a-f0-9]{40}$`)

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "edulend"),
		MySQLUser: getenv("MYSQL_USER", "edulend"),
		MySQLPass: getenv("MYSQL_PASS", "edulend"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		OwnerAddress:       getenv("OWNER_ADDRESS", "0x0000000000000000000000000000000000000001"),
		TreasuryAddress:    getenv("TREASURY_ADDRESS", "0x00000000000000000000000000000000000000fe"),
		CollateralRatioBps: getenvInt("COLLATERAL_RATIO_BPS", 10000),
		FaucetAmount:       int64(getenvInt("FAUCET_AMOUNT", 100_000_000)),
		TokenDecimals:      getenvInt("TOKEN_DECIMALS", 6),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if !reAddr.MatchString(c.OwnerAddress) {
		return fmt.Errorf("invalid OWNER_ADDRESS %q", c.OwnerAddress)
	}
	if !reAddr.MatchString(c.TreasuryAddress) {
		return fmt.Errorf("invalid TREASURY_ADDRESS %q", c.TreasuryAddress)
	}
	if c.OwnerAddress == c.TreasuryAddress {
		return errors.New("OWNER_ADDRESS and TREASURY_ADDRESS must differ")
	}
	if c.CollateralRatioBps <= 0 {
		return errors.New("COLLATERAL_RATIO_BPS must be positive")
	}
	if c.FaucetAmount <= 0 {
		return errors.New("FAUCET_AMOUNT must be positive")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
