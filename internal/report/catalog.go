package report

// Query describes one catalog entry: the sheet it fills and the list
// command that produces it
type Query struct {
	Name    string // sheet name in the workbook
	Command string // list command, the path under /rest/
}

// The report catalog. Order is the sheet order of the workbook; new
// inventory domains are added by extending this list.
var catalog = []Query{
	{Name: "system", Command: "lssystem"},
	{Name: "node-canister", Command: "lsnodecanister"},
	{Name: "system-stats", Command: "lssystemstats"},
	{Name: "node-stats", Command: "lsnodestats"},
	{Name: "vdisk", Command: "lsvdisk"},
	{Name: "host", Command: "lshost"},
	{Name: "host-cluster", Command: "lshostcluster"},
	{Name: "host-vdisk-map", Command: "lshostvdiskmap"},
	{Name: "host-cluster-volume-map", Command: "lshostclustervolumemap"},
	{Name: "vdisk-access", Command: "lsvdiskaccess"},
	{Name: "vdisk-copy", Command: "lsvdiskcopy"},
	{Name: "fc-port", Command: "lsportfc"},
	{Name: "fc-consistency-group", Command: "lsfcconsistgrp"},
	{Name: "io-group", Command: "lsiogrp"},
	{Name: "mdisk-group", Command: "lsmdiskgrp"},
	{Name: "system-ip", Command: "lssystemip"},
	{Name: "partnership", Command: "lspartnership"},
	{Name: "event-log", Command: "lseventlog"},
}

// Catalog returns a copy of the report catalog in sheet order
func Catalog() []Query {
	queries := make([]Query, len(catalog))
	copy(queries, catalog)
	return queries
}
