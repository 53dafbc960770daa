package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// LogStats summarises one day of ledger logs
type LogStats struct {
	TotalErrors       int
	LoginSuccess      int
	LoginFailures     int
	TasksAccepted     int
	TasksRejected     int
	ApprovalsCreated  int
	ApprovalsResolved int
	EntriesByKind     map[string]int
	VolumeByKind      map[string]int64
	WalletActivity    map[string]int
	ErrorPatterns     map[string]int
}

// AuditEntry is one parsed line of the audit log
type AuditEntry struct {
	Kind   string
	From   string
	To     string
	Amount int64
	TxID   string
}

var auditFieldRegex = regexp.MustCompile(`(\w+)=(\S+)`)

func main() {
	date := flag.String("date", time.Now().Format("2006-01-02"), "log date (YYYY-MM-DD)")
	logDir := flag.String("dir", "./logs", "log directory")
	flag.Parse()

	stats := newLogStats()
	analyzeFile(filepath.Join(*logDir, fmt.Sprintf("audit-%s.log", *date)), stats, analyzeAuditLog)
	analyzeFile(filepath.Join(*logDir, fmt.Sprintf("error-%s.log", *date)), stats, analyzeErrorLog)
	analyzeFile(filepath.Join(*logDir, fmt.Sprintf("info-%s.log", *date)), stats, analyzeInfoLog)

	printReport(os.Stdout, stats)
}

func newLogStats() *LogStats {
	return &LogStats{
		EntriesByKind:  make(map[string]int),
		VolumeByKind:   make(map[string]int64),
		WalletActivity: make(map[string]int),
		ErrorPatterns:  make(map[string]int),
	}
}

func analyzeFile(path string, stats *LogStats, analyze func(io.Reader, *LogStats)) {
	file, err := os.Open(path)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", path, err)
		return
	}
	defer file.Close()
	analyze(file, stats)
}

// ParseAuditLine extracts the key=value fields written for each ledger entry
func ParseAuditLine(line string) (AuditEntry, bool) {
	var entry AuditEntry
	found := false
	for _, m := range auditFieldRegex.FindAllStringSubmatch(line, -1) {
		value := m[2]
		if value == "-" {
			value = ""
		}
		switch m[1] {
		case "kind":
			entry.Kind = value
			found = true
		case "from":
			entry.From = value
		case "to":
			entry.To = value
		case "amount":
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return AuditEntry{}, false
			}
			entry.Amount = n
		case "tx":
			entry.TxID = value
		}
	}
	return entry, found && entry.Amount > 0
}

func analyzeAuditLog(r io.Reader, stats *LogStats) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		entry, ok := ParseAuditLine(scanner.Text())
		if !ok {
			continue
		}
		stats.EntriesByKind[entry.Kind]++
		stats.VolumeByKind[entry.Kind] += entry.Amount
		if entry.From != "" {
			stats.WalletActivity[entry.From]++
		}
		if entry.To != "" {
			stats.WalletActivity[entry.To]++
		}
	}
}

func analyzeErrorLog(r io.Reader, stats *LogStats) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		stats.TotalErrors++

		if strings.Contains(line, "Login attempt failed") {
			stats.LoginFailures++
		}
		extractErrorPattern(line, stats)
	}
}

func analyzeInfoLog(r io.Reader, stats *LogStats) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.Contains(line, "User logged in successfully"):
			stats.LoginSuccess++
		case strings.Contains(line, "Task rejected"):
			stats.TasksRejected++
		case strings.Contains(line, "accepted for user"):
			stats.TasksAccepted++
		case strings.Contains(line, "Approval") && strings.Contains(line, "created:"):
			stats.ApprovalsCreated++
		case strings.Contains(line, "resolved by admin"):
			stats.ApprovalsResolved++
		}
	}
}

func extractErrorPattern(line string, stats *LogStats) {
	// message follows the "file.go:NN: " prefix
	parts := strings.SplitN(line, ": ", 3)
	if len(parts) == 3 {
		msg := parts[2]
		if i := strings.Index(msg, ":"); i > 0 {
			msg = msg[:i]
		}
		stats.ErrorPatterns[strings.TrimSpace(msg)]++
	}
}

func printReport(w io.Writer, stats *LogStats) {
	fmt.Fprintln(w, "\n=== Ledger Log Report ===")
	fmt.Fprintln(w, "Generated:", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintln(w, "\n1. Ledger Entries:")
	kinds := make([]string, 0, len(stats.EntriesByKind))
	for kind := range stats.EntriesByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(w, "   %s: %d entries, %d tokens\n", kind, stats.EntriesByKind[kind], stats.VolumeByKind[kind])
	}

	fmt.Fprintln(w, "\n2. Mining and Approvals:")
	fmt.Fprintf(w, "   Tasks Accepted: %d\n", stats.TasksAccepted)
	fmt.Fprintf(w, "   Tasks Rejected: %d\n", stats.TasksRejected)
	fmt.Fprintf(w, "   Approvals Created: %d\n", stats.ApprovalsCreated)
	fmt.Fprintf(w, "   Approvals Resolved: %d\n", stats.ApprovalsResolved)

	fmt.Fprintln(w, "\n3. Authentication:")
	fmt.Fprintf(w, "   Successful Logins: %d\n", stats.LoginSuccess)
	fmt.Fprintf(w, "   Failed Logins: %d\n", stats.LoginFailures)

	fmt.Fprintln(w, "\n4. Errors:")
	fmt.Fprintf(w, "   Total Errors: %d\n", stats.TotalErrors)

	fmt.Fprintln(w, "\n5. Most Active Wallets:")
	printTop(w, stats.WalletActivity, 5, "entries")

	fmt.Fprintln(w, "\n6. Most Common Errors:")
	printTop(w, stats.ErrorPatterns, 5, "occurrences")
}

func printTop(w io.Writer, counts map[string]int, limit int, unit string) {
	type entry struct {
		key   string
		count int
	}

	list := make([]entry, 0, len(counts))
	for k, n := range counts {
		list = append(list, entry{k, n})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count == list[j].count {
			return list[i].key < list[j].key
		}
		return list[i].count > list[j].count
	})

	for i, e := range list {
		if i >= limit {
			break
		}
		fmt.Fprintf(w, "   %s: %d %s\n", e.key, e.count, unit)
	}
}
