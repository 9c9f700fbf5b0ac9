// Package model defines the survey response collected by the wizard: the
// participant demographics, the NASA-TLX workload ratings for each needle
// guidance technique and the post-session evaluation. The response shape is
// fixed and total. Unanswered fields keep their zero value (empty string or a
// rating of 0), so a default rating cannot be told apart from an explicit 0.
// JSON tags follow the payload consumed by the remote spreadsheet script.
package model
