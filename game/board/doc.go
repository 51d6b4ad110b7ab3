// Package board defines the puzzle documents and progress facts shared by
// every participant of a cooperative session.
//
// A Document is the JSON puzzle definition a host publishes to its room.
// A Snapshot is the set of progress facts (theme words found, spangram,
// in-progress selection, hint counter) a host replicates to late joiners.
//
// Coordinates are always (row, col). On the wire a coordinate is written as
// "row,col" and a sequence of coordinates is space separated.
package board
