// Package captions scrapes caption tracks from the public watch page and
// downloads them via the timedtext endpoint. No API quota is spent here;
// tracks simply may not exist, which callers treat as "try the next source".
package captions
