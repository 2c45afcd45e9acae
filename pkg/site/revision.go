package site

import (
	"strconv"

	"github.com/mitchellh/hashstructure"
	"github.com/pkg/errors"
)

// Revision stable content hash of the config, equal configs share a revision
func (c *SiteConfig) Revision() (string, error) {
	h, err := hashstructure.Hash(c, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash config")
	}
	return strconv.FormatUint(h, 16), nil
}
