package archive

import (
	"strconv"

	"github.com/evoscope/symgp/pkg/errors"
)

func formatHash(h uint64) string {
	return strconv.FormatUint(h, 16)
}

func parseHash(s string) (uint64, error) {
	h, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, errors.WithFields(
			errors.Wrap(err, errors.ArchiveError, "malformed hash in archive"),
			errors.Fields{"hash": s},
		)
	}
	return h, nil
}
