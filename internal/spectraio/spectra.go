// Package spectraio reads the engine's plain-text peak-list interchange
// format into spectrum.Raw values (§3's spectrum collaborator contract:
// (scan_number, precursor_mz, precursor_charge, retention_time,
// [(mz, intensity), ...])). It is a minimal stand-in for the MS2/mzML
// readers a production deployment would plug in instead.
package spectraio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tandemms/search/mass"
	"github.com/tandemms/search/spectrum"
)

// ParseFloats parses every string in ss as a float64, in order.
func ParseFloats(ss []string) ([]float64, error) {
	out := make([]float64, len(ss))
	for i, s := range ss {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("spectraio: %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

// ReadScans reads one scan per line from r:
//
//	scan_number precursor_mz precursor_charge retention_time mz1,intensity1 mz2,intensity2 ...
//
// precursor_mass is derived from precursor_mz and precursor_charge using the
// proton mass convention of §4.A. Blank lines and lines starting with '#'
// are skipped.
func ReadScans(r io.Reader) ([]spectrum.Raw, error) {
	var raws []spectrum.Raw
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("spectraio: malformed scan line: %q", line)
		}
		header, err := ParseFloats(fields[:4])
		if err != nil {
			return nil, err
		}
		scanNumber := int(header[0])
		precursorMZ := header[1]
		charge := int(header[2])
		retentionTime := header[3]

		peaks := make([]spectrum.Peak, 0, len(fields)-4)
		for _, tok := range fields[4:] {
			parts := strings.SplitN(tok, ",", 2)
			if len(parts) != 2 {
				return nil, fmt.Errorf("spectraio: malformed peak %q on scan %d", tok, scanNumber)
			}
			vals, err := ParseFloats(parts)
			if err != nil {
				return nil, err
			}
			peaks = append(peaks, spectrum.Peak{MZ: vals[0], Intensity: vals[1]})
		}

		precursorMass := precursorMZ*float64(charge) - float64(charge)*mass.Proton
		raws = append(raws, spectrum.Raw{
			ScanNumber:      scanNumber,
			PrecursorMZ:     precursorMZ,
			PrecursorMass:   precursorMass,
			PrecursorCharge: charge,
			RetentionTime:   retentionTime,
			Peaks:           peaks,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return raws, nil
}

// ReadScansFile opens path and reads every scan from it.
func ReadScansFile(path string) ([]spectrum.Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadScans(f)
}
