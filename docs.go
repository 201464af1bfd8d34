// openid2 provides relying-party support for OpenID 2.0 federated login
// with the Attribute Exchange extension.
//
// See the openid package for the protocol implementation.
package openid2
