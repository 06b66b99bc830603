package main

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// respond serializes a single result record as JSON (default), YAML,
// Property,Value CSV, or a one-sheet XLSX report.
func respond(c *gin.Context, v any, name string, rows func() [][]string) {
	switch c.DefaultQuery("format", "json") {
	case "json":
		c.JSON(http.StatusOK, v)
	case "yaml":
		writeYAML(c, v)
	case "csv":
		writeCSV(c, name+".csv", rows())
	case "xlsx":
		if err := writeXLSX(c, name+".xlsx", "Report", toSheetRows(rows())); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown format, want json, yaml, csv or xlsx"})
	}
}

func respondPlan(c *gin.Context, plan VLSMPlan) {
	switch c.DefaultQuery("format", "json") {
	case "json":
		c.JSON(http.StatusOK, plan)
	case "yaml":
		writeYAML(c, plan)
	case "csv":
		writeCSV(c, "subnetlab_vlsm.csv", vlsmAllocationRows(plan))
	case "xlsx":
		if err := writeVLSMXLSX(c, plan); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown format, want json, yaml, csv or xlsx"})
	}
}

func writeYAML(c *gin.Context, v any) {
	out, err := yaml.Marshal(v)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/yaml; charset=utf-8", out)
}

func writeCSV(c *gin.Context, filename string, rows [][]string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	w := csv.NewWriter(c.Writer)
	for _, row := range rows {
		_ = w.Write(row)
	}
	w.Flush()
}

func writeXLSX(c *gin.Context, filename, sheet string, rows [][]interface{}) error {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)
	writeSheetRows(f, sheet, rows)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return err
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	return nil
}

func writeVLSMXLSX(c *gin.Context, plan VLSMPlan) error {
	f := excelize.NewFile()
	allocSheet := "Allocations"
	f.SetSheetName("Sheet1", allocSheet)
	writeSheetRows(f, allocSheet, toSheetRows(vlsmAllocationRows(plan)))

	summarySheet := "Summary"
	f.NewSheet(summarySheet)
	writeSheetRows(f, summarySheet, toSheetRows(vlsmSummaryRows(plan)))

	buf, err := f.WriteToBuffer()
	if err != nil {
		return err
	}
	c.Header("Content-Disposition", "attachment; filename=subnetlab_vlsm.xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	return nil
}

func writeSheetRows(f *excelize.File, sheet string, rows [][]interface{}) {
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		_ = f.SetSheetRow(sheet, cell, &row)
	}
}

func toSheetRows(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}

func ipv4ConvertRows(r IPv4ConvertResult) [][]string {
	return [][]string{
		{"Property", "Value"},
		{"dotted", r.Dotted},
		{"decimal", strconv.FormatUint(uint64(r.Decimal), 10)},
		{"binary", r.Binary},
		{"hex", r.Hex},
	}
}

func ipv4SubnetRows(r IPv4SubnetResult) [][]string {
	return [][]string{
		{"Property", "Value"},
		{"address", r.Address},
		{"cidr", r.CIDR},
		{"prefix", strconv.Itoa(r.Prefix)},
		{"netmask", r.Netmask},
		{"wildcard", r.Wildcard},
		{"network", r.Network},
		{"broadcast", r.Broadcast},
		{"first_host", r.FirstHost},
		{"last_host", r.LastHost},
		{"host_count", strconv.FormatUint(r.HostCount, 10)},
		{"is_private", strconv.FormatBool(r.IsPrivate)},
		{"is_loopback", strconv.FormatBool(r.IsLoopback)},
		{"is_link_local", strconv.FormatBool(r.IsLinkLocal)},
		{"is_multicast", strconv.FormatBool(r.IsMulticast)},
	}
}

func ipv6SubnetRows(r IPv6SubnetResult) [][]string {
	return [][]string{
		{"Property", "Value"},
		{"address", r.Address},
		{"cidr", r.CIDR},
		{"prefix", strconv.Itoa(r.Prefix)},
		{"network", r.Network},
		{"network_expanded", r.NetworkExpanded},
		{"first_address", r.FirstAddress},
		{"last_address", r.LastAddress},
		{"host_bits", strconv.Itoa(r.HostBits)},
		{"total_addresses", r.TotalAddresses},
		{"solicited_node", r.SolicitedNode},
		{"classification", r.Classification},
	}
}

func ipv6CanonicalRows(r IPv6CanonicalResult) [][]string {
	return [][]string{
		{"Property", "Value"},
		{"address", r.Address},
		{"compressed", r.Compressed},
		{"expanded", r.Expanded},
		{"classification", r.Classification},
		{"solicited_node", r.SolicitedNode},
	}
}

func eui64Rows(r EUI64Result) [][]string {
	return [][]string{
		{"Property", "Value"},
		{"mac", r.MAC},
		{"interface_id", r.InterfaceID},
		{"prefix", r.Prefix},
		{"address", r.Address},
		{"address_expanded", r.AddressExpanded},
		{"link_local", r.LinkLocal},
		{"solicited_node", r.SolicitedNode},
	}
}

func vlsmAllocationRows(plan VLSMPlan) [][]string {
	rows := [][]string{{
		"id", "name", "cidr", "prefix", "network", "broadcast",
		"first_host", "last_host", "hosts_allocated", "slack_hosts",
	}}
	for _, a := range plan.Allocations {
		rows = append(rows, []string{
			a.ID,
			a.Name,
			a.CIDR,
			strconv.Itoa(a.Prefix),
			a.Network,
			a.Broadcast,
			a.FirstHost,
			a.LastHost,
			strconv.FormatUint(a.HostsAllocated, 10),
			strconv.FormatUint(a.SlackHosts, 10),
		})
	}
	return rows
}

func vlsmSummaryRows(plan VLSMPlan) [][]string {
	return [][]string{
		{"Property", "Value"},
		{"base", plan.Base},
		{"success", strconv.FormatBool(plan.Success)},
		{"total_hosts", strconv.FormatUint(plan.TotalHosts, 10)},
		{"allocated_hosts", strconv.FormatUint(plan.AllocatedHosts, 10)},
		{"wasted_hosts", strconv.FormatUint(plan.WastedHosts, 10)},
		{"utilization_percent", fmt.Sprintf("%.2f", plan.UtilizationPercent)},
		{"error_message", plan.ErrorMessage},
	}
}
