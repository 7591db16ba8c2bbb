// Package strainpairs holds the file handling shared by the strainpairs
// tools: home directory expansion, delimiter sniffing, transparent
// decompression, and reading or writing paths that may live on Google Storage.
package strainpairs
