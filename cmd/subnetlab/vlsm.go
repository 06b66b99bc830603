package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

var errInvalidRequirement = errors.New("invalid vlsm requirement")

type VLSMRequirement struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	HostsRequired int    `json:"hosts_required" yaml:"hosts_required"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
}

type VLSMAllocation struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	CIDR           string `json:"cidr" yaml:"cidr"`
	Prefix         int    `json:"prefix" yaml:"prefix"`
	Network        string `json:"network" yaml:"network"`
	Broadcast      string `json:"broadcast" yaml:"broadcast"`
	FirstHost      string `json:"first_host" yaml:"first_host"`
	LastHost       string `json:"last_host" yaml:"last_host"`
	HostsAllocated uint64 `json:"hosts_allocated" yaml:"hosts_allocated"`
	SlackHosts     uint64 `json:"slack_hosts" yaml:"slack_hosts"`
}

type VLSMPlan struct {
	Success            bool             `json:"success" yaml:"success"`
	Base               string           `json:"base" yaml:"base"`
	Allocations        []VLSMAllocation `json:"allocations" yaml:"allocations"`
	TotalHosts         uint64           `json:"total_hosts" yaml:"total_hosts"`
	AllocatedHosts     uint64           `json:"allocated_hosts" yaml:"allocated_hosts"`
	WastedHosts        uint64           `json:"wasted_hosts" yaml:"wasted_hosts"`
	UtilizationPercent float64          `json:"utilization_percent" yaml:"utilization_percent"`
	ErrorMessage       string           `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}

// hostsToPrefix returns the longest prefix whose usable-host count still
// covers the requirement, i.e. the smallest block that fits. ok is false
// when not even /0 can hold the requirement.
func hostsToPrefix(hosts int) (int, bool) {
	for p := 32; p >= 0; p-- {
		if usableHosts(p) >= uint64(hosts) {
			return p, true
		}
	}
	return 0, false
}

func alignUp(n, step uint64) uint64 {
	if step == 0 {
		return n
	}
	if r := n % step; r != 0 {
		n += step - r
	}
	return n
}

// planVLSM partitions the base network into minimally sized, naturally
// aligned blocks, largest requirement first. Requirements that tie on host
// count keep their input order. A single unplaceable requirement fails the
// whole plan; no partial allocations survive.
func planVLSM(baseCIDR string, reqs []VLSMRequirement) (VLSMPlan, error) {
	base, basePrefix, err := parseIPv4CIDR(baseCIDR)
	if err != nil {
		return VLSMPlan{}, err
	}
	network := base & netmask32(basePrefix)
	baseLabel := ipv4ToDotted(network) + "/" + strconv.Itoa(basePrefix)

	seen := map[string]bool{}
	for _, r := range reqs {
		if r.HostsRequired < 1 {
			return VLSMPlan{}, fmt.Errorf("%w: %q needs a positive host count", errInvalidRequirement, r.Name)
		}
		if r.ID != "" {
			if seen[r.ID] {
				return VLSMPlan{}, fmt.Errorf("%w: duplicate id %q", errInvalidRequirement, r.ID)
			}
			seen[r.ID] = true
		}
	}

	sorted := make([]VLSMRequirement, len(reqs))
	copy(sorted, reqs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].HostsRequired > sorted[j].HostsRequired
	})

	cursor := uint64(network)
	end := uint64(network) + uint64(1)<<(32-basePrefix)

	var allocations []VLSMAllocation
	var totalHosts, allocatedHosts uint64
	for _, r := range sorted {
		prefix, ok := hostsToPrefix(r.HostsRequired)
		if !ok {
			return VLSMPlan{
				Base: baseLabel,
				ErrorMessage: fmt.Sprintf("requirement %q (%d hosts) does not fit in %s",
					r.Name, r.HostsRequired, baseLabel),
			}, nil
		}
		size := uint64(1) << (32 - prefix)
		start := alignUp(cursor, size)
		if start+size > end {
			return VLSMPlan{
				Base: baseLabel,
				ErrorMessage: fmt.Sprintf("requirement %q (%d hosts) does not fit in %s",
					r.Name, r.HostsRequired, baseLabel),
			}, nil
		}
		netAddr := uint32(start)
		bcast := uint32(start + size - 1)
		first, last := usableRange(netAddr, bcast, prefix)
		usable := usableHosts(prefix)
		allocations = append(allocations, VLSMAllocation{
			ID:             r.ID,
			Name:           r.Name,
			CIDR:           ipv4ToDotted(netAddr) + "/" + strconv.Itoa(prefix),
			Prefix:         prefix,
			Network:        ipv4ToDotted(netAddr),
			Broadcast:      ipv4ToDotted(bcast),
			FirstHost:      ipv4ToDotted(first),
			LastHost:       ipv4ToDotted(last),
			HostsAllocated: usable,
			SlackHosts:     usable - uint64(r.HostsRequired),
		})
		totalHosts += uint64(r.HostsRequired)
		allocatedHosts += usable
		cursor = start + size
	}

	plan := VLSMPlan{
		Success:        true,
		Base:           baseLabel,
		Allocations:    allocations,
		TotalHosts:     totalHosts,
		AllocatedHosts: allocatedHosts,
		WastedHosts:    allocatedHosts - totalHosts,
	}
	if allocatedHosts > 0 {
		plan.UtilizationPercent = float64(totalHosts) / float64(allocatedHosts) * 100
	}
	return plan, nil
}
