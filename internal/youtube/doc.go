// Package youtube prints a top-videos report for the authenticated user's
// default YouTube channel.
//
// The channel comes from the YouTube Data API (channels.list with mine=true)
// and the report from the YouTube Analytics API (reports.query). Report
// columns carry a closed ColumnType that decides how each cell is printed.
package youtube
