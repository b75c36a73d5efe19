package manager

import (
	"fmt"
	"strconv"
	"strings"
)

// legacyDatacenters maps the numeric datacenter ids of the retired v3 API onto v4 regions
var legacyDatacenters = map[int]string{
	2:  "us-central",   // Dallas
	3:  "us-west",      // Fremont
	4:  "us-southeast", // Atlanta
	6:  "us-east",      // Newark
	7:  "eu-west",      // London
	8:  "ap-northeast", // Tokyo
	9:  "ap-south",     // Singapore
	10: "eu-central",   // Frankfurt
	11: "ap-northeast", // Tokyo 2
}

// ResolveRegion turns a region slug or a legacy numeric datacenter id into a region slug.
// An empty datacenter resolves to DefaultRegion.
func ResolveRegion(datacenter string) (string, error) {
	dc := strings.TrimSpace(datacenter)
	if dc == "" {
		return DefaultRegion, nil
	}

	id, err := strconv.Atoi(dc)
	if err != nil {
		return dc, nil
	}

	region, ok := legacyDatacenters[id]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownDatacenter, id)
	}

	return region, nil
}
