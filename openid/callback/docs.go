/*
callback is a package that provides handlers (in the form of
http.HandlerFunc) for starting an OpenID 2.0 login and for handling the
provider's response to an authentication attempt. The handlers only
orchestrate: all protocol work is done by the openid package, and what to do
with a verified profile (typically: store it in a session) is left to the
SuccessResponseFunc supplied by the application.
*/
package callback
