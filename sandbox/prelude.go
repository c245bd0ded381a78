package sandbox

// prelude defines the helpers spec §4.2 requires every compiled
// program to have available: angleTo, distTo, distFromCenter.
const prelude = `
function angleTo(x1, y1, x2, y2) { return Math.atan2(y2 - y1, x2 - x1); }
function distTo(x1, y1, x2, y2) { var dx = x2 - x1, dy = y2 - y1; return Math.sqrt(dx*dx + dy*dy); }
function distFromCenter(x, y) { return Math.sqrt(x*x + y*y); }
`
