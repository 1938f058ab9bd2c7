// Package toc models the book's table of contents: parts containing chapters
// containing topics. Numbers and the linear page order are derived once, when
// the TOC is constructed, and never change afterwards.
//
// Parts are numbered with roman numerals and chapters with integers that keep
// counting across parts. A part with an empty name holds front or back matter;
// it gets no page of its own and its chapters get an empty number.
package toc
