package render

// Thin mustache templates for the consent flow. Styling is deliberately
// minimal; the contract is the data each page carries, not the markup.

const layoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>BuildClub.io MCP Server</title>
  <link href="/styles.css" rel="stylesheet" />
</head>
<body class="page">
  <header class="header"><a href="/">BuildClub.io</a></header>
  <main class="main">{{{content}}}</main>
  <footer class="footer"><p>&copy; BuildClub.io. All rights reserved.</p></footer>
</body>
</html>
`

const homeTemplate = `<div class="card">
  <h2>Official BuildClub.io MCP Server</h2>
  <p>This is the official MCP server for BuildClub.io. It is used to
  authenticate users and provide them with access to the BuildClub.io
  platform.</p>
  <h3>Tools</h3>
  <ul>
    <li><code>list_events</code> - Retrieve a list of BuildClub.io events</li>
    <li><code>get_event</code> - Retrieve a BuildClub.io event by UUID</li>
    <li><code>event_registration</code> - Register for a BuildClub.io event</li>
  </ul>
</div>
`

const scopeListTemplate = `<h1>Authorization Request</h1>
<h2>MCP Remote Auth Demo would like permission to:</h2>
<ul class="scopes">
  {{#scopes}}
  <li><span class="check">&#10003;</span>
    <p class="scope-name">{{name}}</p>
    <p class="scope-description">{{description}}</p>
  </li>
  {{/scopes}}
</ul>
`

const loggedInConsentTemplate = scopeListTemplate + `<form action="/approve" method="post">
  <input type="hidden" name="oauthReqInfo" value="{{oauthReqInfo}}" />
  <input type="hidden" name="email" value="{{email}}" />
  <input type="hidden" name="password" value="{{password}}" />
  <button type="submit" name="action" value="approve" class="btn-approve">Approve</button>
  <button type="submit" name="action" value="reject" class="btn-reject">Reject</button>
</form>
`

const loggedOutConsentTemplate = scopeListTemplate + `<form action="/approve" method="post">
  <input type="hidden" name="oauthReqInfo" value="{{oauthReqInfo}}" />
  <div>
    <label for="email">Email</label>
    <input type="email" id="email" name="email" required />
  </div>
  <div>
    <label for="password">Password</label>
    <input type="password" id="password" name="password" required />
  </div>
  <button type="submit" name="action" value="login_approve" class="btn-approve">Log in and Approve</button>
  <button type="submit" name="action" value="reject" class="btn-reject">Reject</button>
</form>
`

const outcomeTemplate = `<div class="card outcome">
  <span class="badge {{#success}}badge-success{{/success}}{{^success}}badge-error{{/success}}">
    {{#success}}&#10003;{{/success}}{{^success}}&#10007;{{/success}}
  </span>
  <h1>{{message}}</h1>
  <p>You will be redirected back to the application shortly.</p>
  <a href="/">Return to Home</a>
  <script>
    setTimeout(() => {
      window.location.href = {{{redirectUrlJson}}};
    }, {{delayMs}});
  </script>
</div>
`
