package lookup

import (
	"errors"
	"fmt"
	"net"

	"github.com/TomasB/ipresolve/internal/classify"
	"github.com/TomasB/ipresolve/internal/data"
)

// Service resolves one address at a time against the configured reader.
type Service struct {
	reader data.GeoLookup
}

// NewService creates a lookup service backed by the given reader.
func NewService(reader data.GeoLookup) *Service {
	return &Service{reader: reader}
}

// Lookup resolves a single address. Private addresses short-circuit to
// the all-null record without touching the databases, and an address
// missing from either database collapses to the all-null record as well.
// An error is returned only for an address that cannot be parsed, or
// when a reader fails in some way other than not finding the address.
func (s *Service) Lookup(address string) (Result, error) {
	if classify.IsPrivate(address) {
		return nullResult(address), nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return Result{}, fmt.Errorf("malformed address %q", address)
	}

	asn, err := s.reader.LookupASN(ip)
	if errors.Is(err, data.ErrNotFound) {
		return nullResult(address), nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("lookup %s: %w", address, err)
	}

	city, err := s.reader.LookupCity(ip)
	if errors.Is(err, data.ErrNotFound) {
		return nullResult(address), nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("lookup %s: %w", address, err)
	}

	return Merge(address, asn, city), nil
}
