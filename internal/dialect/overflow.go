package dialect

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	mssql "github.com/microsoft/go-mssqldb"
)

// overflowCodes lists the engine error codes raised when an integer
// aggregate exceeds the engine's numeric range. Static metric units
// degrade (drop sum/mean/stddev) on these; window units skip.
var overflowCodes = map[Dialect][]int{
	Snowflake: {100046, 100058},
	MySQL:     {1690},
	MSSQL:     {8115},
}

// IsOverflow reports whether err is a known numeric-overflow error for
// the given dialect. Driver error types are inspected first; for dialects
// reached through opaque connections the error text is scanned for the
// code instead.
func IsOverflow(d Dialect, err error) bool {
	if err == nil {
		return false
	}
	codes, ok := overflowCodes[d]
	if !ok {
		return false
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return containsCode(codes, int(myErr.Number))
	}
	var msErr mssql.Error
	if errors.As(err, &msErr) {
		return containsCode(codes, int(msErr.Number))
	}

	msg := err.Error()
	for _, code := range codes {
		if strings.Contains(msg, strconv.Itoa(code)) {
			return true
		}
	}
	return false
}

func containsCode(codes []int, code int) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
