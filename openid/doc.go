// Package openid provides relying-party support for making authentication
// requests as specified in OpenID Authentication 2.0, with user attributes
// requested via the Attribute Exchange 1.0 extension. It supports providers
// with a fixed, pre-known endpoint (no discovery), such as Google's
// federated login.
package openid
