package inventory

import (
	"fmt"
	"strings"
)

// ClusterRef identifies one EKS cluster within one account's scope
type ClusterRef struct {
	AccountID string
	Region    string
	Name      string
}

// String returns the canonical cache encoding accountID/region/name
func (r ClusterRef) String() string {
	return r.AccountID + "/" + r.Region + "/" + r.Name
}

// ParseClusterRef parses the canonical accountID/region/name encoding.
// It is the exact inverse of String for well-formed entries; EKS cluster
// names cannot contain slashes, so the encoding is unambiguous.
func ParseClusterRef(s string) (ClusterRef, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return ClusterRef{}, fmt.Errorf("malformed cluster entry %q", s)
	}
	return ClusterRef{AccountID: parts[0], Region: parts[1], Name: parts[2]}, nil
}
