// Package scanner segments mixed document bodies into plain content, code
// samples, script blocks and embedded component invocations.
//
// The scanner is a pure left-to-right fold: Scanner.Step consumes one line and
// returns the next scanner value together with the blocks completed by that
// line. Scanner values never share buffers, so any intermediate value can be
// kept, compared or resumed independently. Collect turns the emitted blocks
// into a Result: the plain-content stream with placeholder elements inserted,
// the component-section map, the code samples and the ordered scripts.
//
// Recognized constructs:
//
//	```go                      fenced code sample (key code-block<N>)
//	```component [hint]        component fence (key <hint><N> or component<N>)
//	<Counter Start="3" />      capitalized component tag (key counter<N>)
//	<script>...</script>       script, single or multi-line
//
// Blocks still open at end of input are dropped.
package scanner
