package data

import (
	"errors"
	"net"
	"os"
	"testing"
)

const (
	testASNPath  = "../../testdata/GeoLite2-ASN-Test.mmdb"
	testCityPath = "../../testdata/GeoLite2-City-Test.mmdb"
)

func skipIfNoMMDB(t *testing.T) {
	t.Helper()
	for _, path := range []string{testASNPath, testCityPath} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Skip("test MMDB files not found; download them from https://github.com/maxmind/MaxMind-DB/raw/main/test-data/ into testdata/")
		}
	}
}

func TestNewMmdbReader_Success(t *testing.T) {
	skipIfNoMMDB(t)

	reader, err := NewMmdbReader(testASNPath, testCityPath)
	if err != nil {
		t.Fatalf("failed to create reader: %v", err)
	}
	defer reader.Close()
}

func TestNewMmdbReader_InvalidPath(t *testing.T) {
	if _, err := NewMmdbReader("/nonexistent/asn.mmdb", "/nonexistent/city.mmdb"); err == nil {
		t.Fatal("expected error for invalid paths")
	}
}

func TestNewMmdbReader_InvalidCityPath(t *testing.T) {
	skipIfNoMMDB(t)

	if _, err := NewMmdbReader(testASNPath, "/nonexistent/city.mmdb"); err == nil {
		t.Fatal("expected error when only the city path is invalid")
	}
}

func TestMmdbReader_LookupASN(t *testing.T) {
	skipIfNoMMDB(t)

	reader, err := NewMmdbReader(testASNPath, testCityPath)
	if err != nil {
		t.Fatalf("failed to create reader: %v", err)
	}
	defer reader.Close()

	// 1.128.0.0/11 is AS1221 Telstra in the MaxMind test fixture.
	record, err := reader.LookupASN(net.ParseIP("1.128.0.0"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Number != 1221 {
		t.Errorf("expected ASN 1221, got %d", record.Number)
	}
	if record.Organization == "" {
		t.Error("expected non-empty organization")
	}
}

func TestMmdbReader_LookupASN_NotFound(t *testing.T) {
	skipIfNoMMDB(t)

	reader, err := NewMmdbReader(testASNPath, testCityPath)
	if err != nil {
		t.Fatalf("failed to create reader: %v", err)
	}
	defer reader.Close()

	_, err = reader.LookupASN(net.ParseIP("127.0.0.1"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMmdbReader_LookupCity(t *testing.T) {
	skipIfNoMMDB(t)

	reader, err := NewMmdbReader(testASNPath, testCityPath)
	if err != nil {
		t.Fatalf("failed to create reader: %v", err)
	}
	defer reader.Close()

	// 2.125.160.216 is Boxford, England, GB in the MaxMind test fixture.
	record, err := reader.LookupCity(net.ParseIP("2.125.160.216"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.CountryISO != "GB" {
		t.Errorf("expected country ISO GB, got %q", record.CountryISO)
	}
	if record.City == "" {
		t.Error("expected non-empty city")
	}
	if record.Latitude == 0 && record.Longitude == 0 {
		t.Error("expected coordinates to be populated")
	}
}

func TestMmdbReader_LookupCity_NotFound(t *testing.T) {
	skipIfNoMMDB(t)

	reader, err := NewMmdbReader(testASNPath, testCityPath)
	if err != nil {
		t.Fatalf("failed to create reader: %v", err)
	}
	defer reader.Close()

	_, err = reader.LookupCity(net.ParseIP("127.0.0.1"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReloadableReader_Reload(t *testing.T) {
	skipIfNoMMDB(t)

	reader, err := NewReloadableReader(testASNPath, testCityPath)
	if err != nil {
		t.Fatalf("failed to create reloadable reader: %v", err)
	}
	defer reader.Close()

	before, err := reader.LookupCity(net.ParseIP("2.125.160.216"))
	if err != nil {
		t.Fatalf("lookup before reload: %v", err)
	}

	if err := reader.Reload(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	after, err := reader.LookupCity(net.ParseIP("2.125.160.216"))
	if err != nil {
		t.Fatalf("lookup after reload: %v", err)
	}
	if before != after {
		t.Errorf("expected identical records across reload, got %+v then %+v", before, after)
	}
}
