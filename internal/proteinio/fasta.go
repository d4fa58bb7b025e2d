// Package proteinio reads FASTA protein records into peptide.Protein
// values, applying the decoy-prefix convention a caller's FASTA file uses
// to mark reversed/shuffled decoy sequences (§3's protein collaborator
// contract: (accession, sequence, is_decoy)).
package proteinio

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/tandemms/search/peptide"
)

// DecoyPrefix is the header token ReadFASTA uses to mark a decoy protein,
// following the "rev_" convention named in §3.
const DecoyPrefix = "rev_"

// record is a single FASTA entry with its header kept unparsed beyond
// accession extraction.
type record struct {
	header string
	seq    []byte
}

func (r record) accession() string {
	id := strings.TrimPrefix(r.header, ">")
	if sp := strings.IndexByte(id, ' '); sp >= 0 {
		id = id[:sp]
	}
	return id
}

// ReadFASTA reads every record from r, all whitespace-trimmed and
// concatenated across wrapped lines, in the order they appear.
func ReadFASTA(r io.Reader) ([]peptide.Protein, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var recs []record
	var cur *record
	foundHeader := false
	for _, line := range bytes.Split(d, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		switch {
		case len(line) == 0:
			continue
		case line[0] == '>':
			foundHeader = true
			recs = append(recs, record{header: string(line)})
			cur = &recs[len(recs)-1]
		case !foundHeader:
			return nil, errors.New("proteinio: FASTA data before first header")
		default:
			cur.seq = append(cur.seq, line...)
		}
	}

	proteins := make([]peptide.Protein, len(recs))
	for i, r := range recs {
		acc := r.accession()
		isDecoy := strings.HasPrefix(acc, DecoyPrefix)
		proteins[i] = peptide.Protein{
			Accession: acc,
			Sequence:  string(r.seq),
			IsDecoy:   isDecoy,
		}
	}
	return proteins, nil
}

// ReadFASTAFile opens path and reads every FASTA record from it.
func ReadFASTAFile(path string) ([]peptide.Protein, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFASTA(bufio.NewReader(f))
}
