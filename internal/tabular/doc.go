// Package tabular reads CSV and Excel source files into a uniform
// header-addressed table.
//
// The district publishes its datasets in both formats, sometimes with
// UTF-8 BOMs, currency-formatted numbers and ragged rows. ReadFile
// normalizes all of that into a Table so the loaders in community and
// schools can address cells by column name and parse values without
// caring which format the file arrived in.
package tabular
