// Package validation checks flat string maps against pipe-separated rules.
//
//	v := validation.Make(map[string]string{
//	    "SCOPES_LOG_FORMAT": cfg.Log.Format,
//	}, validation.Rules{
//	    "SCOPES_LOG_FORMAT": "required|in:console,json",
//	})
//
//	if v.Fails() {
//	    return v.Errors() // *Errors implements error
//	}
//
// Rules: required, max:n, in:a,b, alpha_dash, regex:pattern. Validation stops
// at the first failing rule of each field.
package validation
