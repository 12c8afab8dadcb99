package nps

import "strconv"

// reasonTexts maps NPS Reason-Code values to the explanation text that NPS
// documents for the IAS/NPS event log. The table is intentionally allowed to
// be incomplete: ReasonText falls back to the numeric code.
var reasonTexts = map[int]string{
	0:   "The connection request was successfully authenticated and authorized by Network Policy Server.",
	1:   "The connection request failed due to a Network Policy Server error.",
	2:   "There are insufficient access rights to process the request.",
	3:   "The Remote Authentication Dial-In User Service (RADIUS) Access-Request message that NPS received from the network access server was malformed.",
	4:   "The NPS server was unable to access the Active Directory Domain Services (AD DS) global catalog.",
	5:   "The Network Policy Server was unable to connect to a domain controller in the domain where the user account is located.",
	6:   "The NPS server is unavailable. This issue can occur if the NPS server is running low on or is out of random access memory (RAM).",
	7:   "The domain that is specified in the User-Name attribute of the RADIUS message does not exist.",
	8:   "The user account that is specified in the User-Name attribute of the RADIUS message does not exist.",
	9:   "An Internet Authentication Service (IAS) extension dynamic link library (DLL) that is installed on the NPS server discarded the connection request.",
	10:  "An IAS extension dynamic link library (DLL) that is installed on the NPS server has failed and cannot perform its function.",
	16:  "Authentication failed due to a user credentials mismatch. Either the user name provided does not match an existing user account or the password was incorrect.",
	17:  "The user's attempt to change their password has failed.",
	18:  "The authentication method used by the client computer is not supported by Network Policy Server for this connection.",
	20:  "The client attempted to use LAN Manager authentication, which is not supported by Network Policy Server.",
	21:  "An IAS extension dynamic link library (DLL) that is installed on the NPS server rejected the connection request.",
	22:  "Network Policy Server was unable to negotiate the use of an Extensible Authentication Protocol (EAP) type with the client computer.",
	23:  "An error occurred during the Network Policy Server use of the Extensible Authentication Protocol (EAP).",
	32:  "NPS is joined to a workgroup and performs the authentication and authorization of connection requests using the local SAM database.",
	33:  "The user that is attempting to connect to the network must change their password.",
	34:  "The user account that is specified in the RADIUS Access-Request message is disabled.",
	35:  "The user account that is specified in the RADIUS Access-Request message is expired.",
	36:  "The user's authentication attempts have exceeded the maximum allowed number of failed attempts.",
	37:  "According to AD DS user account logon hours, the user is not permitted to access the network on this day and time.",
	38:  "Authentication failed due to a user account restriction or requirement that was not followed.",
	48:  "The connection request did not match a configured network policy, so the connection request was denied by Network Policy Server.",
	49:  "The connection request did not match a configured connection request policy, so the connection request was denied by Network Policy Server.",
	64:  "Remote Access Account Lockout is enabled, and the user's authentication attempts have exceeded the designated lockout count.",
	65:  "The Network Access Permission setting in the dial-in properties of the user account is set to Deny access to the user.",
	66:  "Authentication failed. Either the client computer attempted to use an authentication method that is not enabled on the matching network policy or the client computer attempted to authenticate as Guest.",
	67:  "NPS denied the connection request because the value of the Calling-Station-ID attribute did not match the value of Verify Caller ID.",
	68:  "The user or computer does not have permission to access the network on this day at this time.",
	69:  "The telephone number of the network access server does not match the value of the Calling-Station-ID attribute.",
	70:  "The network access method used by the access client to connect to the network does not match the value of the NAS-Port-Type attribute.",
	72:  "The user password has expired or is about to expire and the user must change their password.",
	73:  "The purposes that are configured in the Application Policies extensions of the user or computer certificate are not valid or are missing.",
	80:  "NPS attempted to write accounting data to the data store, but failed to do so for unknown reasons.",
	96:  "Authentication failed due to an Extensible Authentication Protocol (EAP) session timeout.",
	97:  "The authentication request was not processed because it contained a RADIUS message that was not appropriate for the secure authentication transaction.",
	112: "The local NPS proxy server forwarded a connection request to a remote RADIUS server, and the remote server rejected the connection request.",
	113: "The local NPS proxy attempted to forward a connection request to a member of a remote RADIUS server group that does not exist.",
	115: "The local NPS proxy did not forward a RADIUS message because it is not an accounting request or a connection request.",
	116: "The local NPS proxy server cannot forward the connection request to the remote RADIUS server (Socket error).",
	117: "The remote RADIUS server did not respond to the local NPS proxy within an acceptable time period.",
	118: "The local NPS proxy server received a RADIUS message that is malformed from a remote RADIUS server.",
	256: "The certificate provided by the user or computer as proof of their identity is a revoked certificate.",
	257: "NPS cannot access the certificate revocation list to verify whether the user or client computer certificate is valid or is revoked (Missing DLL).",
	258: "NPS cannot access the certificate revocation list to verify whether the user or client computer certificate is valid or is revoked.",
	259: "The certification authority that manages the certificate revocation list is not available.",
	260: "The EAP message has been altered so that the MD5 hash of the entire RADIUS message does not match.",
	261: "NPS cannot contact Active Directory Domain Services (AD DS) or the local user accounts database.",
	262: "NPS discarded the RADIUS message because it is incomplete and the signature was not verified.",
	263: "NPS did not receive complete credentials from the user or computer.",
	264: "The SSPI called by EAP reports that the system clocks on the NPS server and the access client are not synchronized.",
	265: "The certificate that the user or client computer provided to NPS chains to an enterprise root CA that is not trusted by the NPS server.",
	266: "NPS received a message that was either unexpected or incorrectly formatted.",
	267: "The certificate provided by the connecting user or computer is not valid (Missing Client Authentication purpose).",
	268: "The certificate provided by the connecting user or computer is expired.",
	269: "The SSPI called by EAP reports that the NPS server and the access client cannot communicate because they do not possess a common algorithm.",
	270: "The user is required to log on with a smart card, but they have attempted to log on by using other credentials.",
	271: "The connection request was not processed because the NPS server was in the process of shutting down or restarting.",
	272: "The certificate implies multiple user or computer accounts rather than one account.",
	273: "Authentication failed. NPS called Windows Trust Verification Services, and the trust provider is not recognized.",
	274: "Authentication failed. NPS called Windows Trust Verification Services, and the trust provider does not support the specified action.",
	275: "Authentication failed. NPS called Windows Trust Verification Services, and the trust provider does not support the specified form.",
	276: "Authentication failed. The binary file that calls EAP cannot be verified and is not trusted.",
	277: "Authentication failed. The binary file that calls EAP is not signed, or the signer certificate cannot be found.",
	278: "Authentication failed. The certificate that was provided by the connecting user or computer is expired.",
	279: "Authentication failed. The certificate is not valid because the validity periods of certificates in the chain do not match.",
	280: "Authentication failed. The certificate is not valid and was not issued by a valid certification authority (CA).",
	281: "Authentication failed. The path length constraint in the certification chain has been exceeded.",
	282: "Authentication failed. The certificate contains a critical extension that is unrecognized by NPS.",
	283: "Authentication failed. The certificate does not contain the Client Authentication purpose in Application Policies extensions.",
	284: "Authentication failed. The certificate issuer and the parent of the certificate in the certificate chain do not match.",
	285: "Authentication failed. NPS cannot locate the certificate, or the certificate is incorrectly formed.",
	286: "Authentication failed. The CA is not trusted by the NPS server.",
	287: "Authentication failed. The certificate does not chain to an enterprise root CA that NPS trusts.",
	288: "Authentication failed due to an unspecified trust failure.",
	289: "Authentication failed. The certificate provided by the connecting user or computer is revoked.",
	290: "Authentication failed. A test or trial certificate is in use, however the test root CA is not trusted.",
	291: "Authentication failed because NPS cannot locate and access the certificate revocation list.",
	292: "Authentication failed. The User-Name attribute does not match the CN in the certificate.",
	293: "Authentication failed. The certificate is not configured with the Client Authentication purpose.",
	294: "Authentication failed because the certificate was explicitly marked as untrusted by the Administrator.",
	295: "Authentication failed. The CA is not trusted by the NPS server.",
	296: "Authentication failed. The certificate is not configured with the Client Authentication purpose.",
	297: "Authentication failed. The certificate does not have a valid name.",
	298: "Authentication failed. Either the certificate does not contain a valid UPN or the User-Name does not match.",
	299: "Authentication failed. The sequence of information provided by internal components or protocols is incorrect.",
	300: "Authentication failed. The certificate is malformed and EAP cannot locate credential information.",
	301: "NPS terminated the authentication process. Invalid crypto-binding TLV (Potential Man-in-the-Middle).",
	302: "NPS terminated the authentication process. Missing crypto-binding TLV.",
}

// ReasonText returns the NPS explanation for a reason code. Codes missing
// from the table come back as their decimal form with ok=false.
func ReasonText(code int) (string, bool) {
	if text, ok := reasonTexts[code]; ok {
		return text, true
	}
	return strconv.Itoa(code), false
}
