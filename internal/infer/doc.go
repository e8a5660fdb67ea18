// Package infer classifies CSV columns into database column types by scanning
// their values.
//
// Each present value narrows the set of compatible types; missing values are
// ignored. The result is the first surviving type in the order INTEGER, FLOAT,
// BOOLEAN, TIMESTAMP, or TEXT when none survive. Classification never fails:
// anything heterogeneous or unrecognised becomes TEXT.
package infer
